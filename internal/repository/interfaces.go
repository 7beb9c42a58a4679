package repository

import (
	"context"
	"errors"
	"time"

	"SensorHubAPI/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository SensorHubAPI/internal/repository DeviceStore,DeviceTypeStore,RuleStore,AlertStore,TelemetryStore,TenantStore,UserStore,APIKeyStore,CommandStore

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// An empty tenantID on read methods means "any tenant" and is only passed for
// platform administrators.

type DeviceStore interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, tenantID, id string) (*models.Device, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]models.Device, error)
	Update(ctx context.Context, tenantID, id string, req *models.UpdateDeviceRequest) (*models.Device, error)
	Delete(ctx context.Context, tenantID, id string) error
	UpdateLastSeen(ctx context.Context, id string, seenAt time.Time) error
	ListActive(ctx context.Context) ([]models.Device, error)
	CountByStatus(ctx context.Context, tenantID string) (map[string]int, error)
}

type DeviceTypeStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetVariables(ctx context.Context, deviceTypeID string) ([]models.DeviceTypeVariable, error)
	GetVariable(ctx context.Context, deviceTypeID, variableCode string) (*models.DeviceTypeVariable, error)
	UpsertVariable(ctx context.Context, v *models.DeviceTypeVariable) error
}

type RuleStore interface {
	Create(ctx context.Context, rule *models.AlertRule) error
	GetByID(ctx context.Context, id int64) (*models.AlertRule, error)
	Update(ctx context.Context, rule *models.AlertRule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, tenantID string) ([]models.AlertRule, error)
	FindApplicable(ctx context.Context, tenantID, deviceTypeID, variableCode string) ([]models.AlertRule, error)
}

type AlertStore interface {
	// CreateIfNoneActive inserts alert unless an open or acknowledged alert
	// with the same device and dedup key exists. It reports whether a row was
	// written. The check and the insert are a single statement.
	CreateIfNoneActive(ctx context.Context, alert *models.Alert) (bool, error)
	GetByID(ctx context.Context, tenantID string, id int64) (*models.Alert, error)
	List(ctx context.Context, filter models.AlertFilter) ([]models.Alert, int, error)
	// TransitionStatus moves the alert from status from to status to. It
	// returns ErrConflict when the alert is no longer in status from.
	TransitionStatus(ctx context.Context, tenantID string, id int64, from, to models.AlertStatus, at time.Time) (*models.Alert, error)
	ActiveDeviceIDs(ctx context.Context, dedupKey string) (map[string]bool, error)
	CloseActiveByKey(ctx context.Context, deviceID, dedupKey string, at time.Time) (int64, error)
	GetStatistics(ctx context.Context, tenantID string, start, end *time.Time) (*models.AlertStatistics, error)
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

type TelemetryStore interface {
	InsertBatch(ctx context.Context, points []models.TelemetryPoint) error
	Query(ctx context.Context, req *models.TelemetryQueryRequest) ([]models.TelemetryPoint, int, error)
	GetLatest(ctx context.Context, tenantID, deviceID string) ([]models.TelemetryPoint, error)
	ValuesByVariable(ctx context.Context, tenantID, deviceID string, start, end time.Time) (map[string][]float64, error)
	Series(ctx context.Context, tenantID, deviceID, variableCode, interval string, start, end time.Time) ([]models.SeriesPoint, error)
	Count(ctx context.Context, tenantID string, start, end time.Time) (int, error)
}

type TenantStore interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetTOTPSecret(ctx context.Context, id, secret string) error
}

type APIKeyStore interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByID(ctx context.Context, id string) (*models.APIKey, error)
	List(ctx context.Context, tenantID string) ([]models.APIKey, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, tenantID, id string, at time.Time) error
}

type CommandStore interface {
	Create(ctx context.Context, cmd *models.Command) error
	GetByID(ctx context.Context, id int64) (*models.Command, error)
	ListByDevice(ctx context.Context, tenantID, deviceID string, limit int) ([]models.Command, error)
	UpdateStatus(ctx context.Context, id int64, status string, result map[string]interface{}) error
}
