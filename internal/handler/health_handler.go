package handler

import (
	"context"
	"net/http"
	"time"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/mqtt"
	"SensorHubAPI/internal/service"

	"github.com/gorilla/mux"
)

// DatabasePinger is satisfied by *database.Database.
type DatabasePinger interface {
	Health(ctx context.Context) error
}

// BrokerStatus is satisfied by *mqtt.Client.
type BrokerStatus interface {
	Health() *mqtt.HealthStatus
}

type HealthHandler struct {
	db      DatabasePinger
	broker  BrokerStatus
	monitor *service.DeviceMonitor
	log     *logger.Logger
}

// NewHealthHandler creates the handler. broker is nil when MQTT is disabled
// and is then left out of the readiness decision.
func NewHealthHandler(db DatabasePinger, broker BrokerStatus, monitor *service.DeviceMonitor, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		broker:  broker,
		monitor: monitor,
		log:     log,
	}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/health/live", h.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", h.Readiness).Methods("GET")
}

// RegisterCronRoutes registers the routes guarded by the cron secret.
func (h *HealthHandler) RegisterCronRoutes(r *mux.Router) {
	r.HandleFunc("/device-health", h.DeviceHealth).Methods("GET", "POST")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	dbErr := h.db.Health(ctx)
	response.Services.Database = (dbErr == nil)

	mqttOK := true
	if h.broker != nil {
		mqttOK = h.broker.Health().Connected
		response.Services.MQTT = mqttOK
	}

	if !response.Services.Database || !mqttOK {
		response.Status = "degraded"
		h.log.Warn("Health check degraded - DB: %v, MQTT: %v", response.Services.Database, mqttOK)
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, response)
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		h.log.Warn("Readiness check failed - DB error: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// DeviceHealth runs one device health check for an external scheduler.
// Partial failures still return the report.
func (h *HealthHandler) DeviceHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.monitor.Check(r.Context(), "cron")
	if err != nil {
		if report == nil {
			respondServiceError(w, h.log, err)
			return
		}
		h.log.Warn("Device health check completed with errors: %v", err)
	}

	respondJSON(w, http.StatusOK, report)
}
