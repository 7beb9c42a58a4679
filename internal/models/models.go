// internal/models/models.go

package models

import (
	"encoding/json"
	"time"
)

const (
	DeviceStatusActive   = "active"
	DeviceStatusInactive = "inactive"
)

type Device struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenantId"`
	DeviceTypeID string                 `json:"deviceTypeId"`
	Name         string                 `json:"name"`
	Location     string                 `json:"location"`
	Status       string                 `json:"status"`
	Firmware     string                 `json:"firmwareVersion"`
	LastSeenAt   *time.Time             `json:"lastSeenAt"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

type DeviceType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type DeviceTypeVariable struct {
	DeviceTypeID string   `json:"deviceTypeId"`
	VariableCode string   `json:"variableCode"`
	Label        string   `json:"label"`
	Unit         string   `json:"unit"`
	MinValue     *float64 `json:"minValue"`
	MaxValue     *float64 `json:"maxValue"`
	IsAlertable  bool     `json:"isAlertable"`
}

// InRange reports whether v sits inside the declared sensor range.
func (v *DeviceTypeVariable) InRange(value float64) bool {
	if v.MinValue != nil && value < *v.MinValue {
		return false
	}
	if v.MaxValue != nil && value > *v.MaxValue {
		return false
	}
	return true
}

// TelemetryPoint is append-only; it is never updated after insert.
type TelemetryPoint struct {
	TenantID     string    `json:"tenantId"`
	DeviceID     string    `json:"deviceId"`
	VariableCode string    `json:"variableCode"`
	Value        float64   `json:"value"`
	CapturedAt   time.Time `json:"capturedAt"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

type Tenant struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	NotificationEmail string `json:"notificationEmail"`
	NotificationPhone string `json:"notificationPhone"`
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	TenantID     string `json:"tenantId"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
	TOTPSecret   string `json:"-"`
}

type APIKey struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenantId"`
	Name       string     `json:"name"`
	SecretHash string     `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

const (
	CommandStatusPending   = "pending"
	CommandStatusSent      = "sent"
	CommandStatusCompleted = "completed"
	CommandStatusFailed    = "failed"
)

type Command struct {
	ID          int64                  `json:"id"`
	TenantID    string                 `json:"tenantId"`
	DeviceID    string                 `json:"deviceId"`
	CommandType string                 `json:"commandType"`
	Payload     map[string]interface{} `json:"payload"`
	IssuedAt    time.Time              `json:"issuedAt"`
	ExecutedAt  *time.Time             `json:"executedAt"`
	Status      string                 `json:"status"`
	Result      map[string]interface{} `json:"result"`
}

// Requests

type IngestRequest struct {
	DeviceID string          `json:"deviceId"`
	Readings json.RawMessage `json:"readings"`
}

type ReadingInput struct {
	Variable  string          `json:"variable"`
	Value     json.RawMessage `json:"value"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type IngestResponse struct {
	Success  bool          `json:"success"`
	DeviceID string        `json:"deviceId"`
	Accepted int           `json:"accepted"`
	Rejected int           `json:"rejected"`
	Errors   []IngestError `json:"errors,omitempty"`
	Message  string        `json:"error,omitempty"`
}

type IngestError struct {
	Index    int    `json:"index"`
	Variable string `json:"variable,omitempty"`
	Error    string `json:"error"`
}

type CreateDeviceRequest struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenantId"`
	DeviceTypeID string                 `json:"deviceTypeId"`
	Name         string                 `json:"name"`
	Location     string                 `json:"location"`
	Firmware     string                 `json:"firmwareVersion"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type UpdateDeviceRequest struct {
	Name     *string                `json:"name"`
	Location *string                `json:"location"`
	Status   *string                `json:"status"`
	Firmware *string                `json:"firmwareVersion"`
	Metadata map[string]interface{} `json:"metadata"`
}

type CommandRequest struct {
	DeviceID    string                 `json:"-"`
	CommandType string                 `json:"command"`
	Payload     map[string]interface{} `json:"params"`
}

type TelemetryQueryRequest struct {
	TenantID     string
	DeviceIDs    []string
	VariableCode string
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

type TelemetryQueryResponse struct {
	Data       []TelemetryPoint `json:"data"`
	TotalCount int              `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Count  int       `json:"count"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Avg    float64   `json:"avg"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	TenantID  string    `json:"tenantId"`
	Role      string    `json:"role"`
}

type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

type CreateAPIKeyResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Key    string `json:"key"`
	Notice string `json:"notice"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  struct {
		Database bool `json:"database"`
		MQTT     bool `json:"mqtt"`
	} `json:"services"`
}

// Realtime events published on the event bus.
const (
	EventTelemetry     = "telemetry"
	EventAlert         = "alert"
	EventAlertUpdated  = "alert_updated"
	EventDeviceOffline = "device_offline"
	EventDeviceOnline  = "device_online"
)
