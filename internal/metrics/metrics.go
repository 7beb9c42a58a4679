package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensorhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorhub_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Ingestion
	ReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_telemetry_readings_total",
			Help: "Telemetry readings received",
		},
		[]string{"source", "status"}, // status: accepted, rejected
	)

	IngestBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sensorhub_ingest_batch_size",
			Help:    "Readings per ingestion request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Evaluation
	AlertsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_alerts_opened_total",
			Help: "Alerts opened by rule evaluation or health checks",
		},
		[]string{"severity", "source"},
	)

	AlertsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorhub_alerts_deduplicated_total",
			Help: "Rule matches suppressed because an alert was already active",
		},
	)

	RulesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_rules_skipped_total",
			Help: "Malformed rules skipped during evaluation",
		},
		[]string{"reason"},
	)

	// Device health
	DevicesOffline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensorhub_devices_offline",
			Help: "Devices classified offline by the last health check",
		},
	)

	HealthChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_health_checks_total",
			Help: "Device health check runs",
		},
		[]string{"trigger", "status"},
	)

	// Notifications
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_notifications_total",
			Help: "Notification delivery outcomes",
		},
		[]string{"channel", "status"}, // status: sent, failed, dropped, skipped
	)

	NotificationQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensorhub_notification_queue_size",
			Help: "Intents waiting for delivery",
		},
	)

	// Realtime
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensorhub_websocket_clients",
			Help: "Connected realtime clients",
		},
	)

	// MQTT
	MQTTMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_mqtt_messages_total",
			Help: "MQTT messages handled",
		},
		[]string{"kind", "status"},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorhub_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
