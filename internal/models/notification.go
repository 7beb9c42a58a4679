package models

import "time"

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWebhook  Channel = "webhook"
	ChannelRealtime Channel = "realtime"
)

// NotificationIntent describes a delivery the caller wants to happen. Producers
// only build intents; delivery is best effort and owned by the dispatcher.
type NotificationIntent struct {
	Channel    Channel                `json:"channel"`
	TenantID   string                 `json:"tenantId,omitempty"`
	DeviceID   string                 `json:"deviceId,omitempty"`
	AlertID    int64                  `json:"alertId,omitempty"`
	Severity   Severity               `json:"severity"`
	Subject    string                 `json:"subject"`
	Body       string                 `json:"body"`
	Recipients []string               `json:"recipients,omitempty"`
	Event      string                 `json:"event,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type DeviceState string

const (
	DeviceOnline  DeviceState = "online"
	DeviceOffline DeviceState = "offline"
	DeviceUnknown DeviceState = "unknown"
)

// DeviceHealth is one row of a health classification.
type DeviceHealth struct {
	DeviceID           string      `json:"deviceId"`
	TenantID           string      `json:"tenantId"`
	Name               string      `json:"name"`
	State              DeviceState `json:"state"`
	LastSeenAt         *time.Time  `json:"lastSeenAt"`
	HoursSinceLastSeen *float64    `json:"hoursSinceLastSeen"`
}

type DeviceHealthReport struct {
	CheckedAt         time.Time            `json:"checkedAt"`
	Threshold         string               `json:"threshold"`
	TotalDevices      int                  `json:"totalDevices"`
	Online            int                  `json:"online"`
	Offline           int                  `json:"offline"`
	Unknown           int                  `json:"unknown"`
	NewlyOffline      int                  `json:"newlyOffline"`
	Recovered         int                  `json:"recovered"`
	OfflineDevices    []DeviceHealth       `json:"offlineDevices"`
	NotificationsSent int                  `json:"notificationsSent"`
	Intents           []NotificationIntent `json:"-"`
}
