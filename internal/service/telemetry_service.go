package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

const (
	MaxReadingsPerRequest = 500
	DefaultTelemetryLimit = 100
	MaxTelemetryLimit     = 1000

	// Readings stamped further in the future than this are rejected.
	maxClockSkew = 5 * time.Minute
)

type TelemetryService struct {
	devices   repository.DeviceStore
	types     repository.DeviceTypeStore
	telemetry repository.TelemetryStore
	evaluator RuleEvaluator
	notifier  Notifier
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

func NewTelemetryService(
	devices repository.DeviceStore,
	types repository.DeviceTypeStore,
	telemetry repository.TelemetryStore,
	evaluator RuleEvaluator,
	notifier Notifier,
	bus events.Bus,
	log *logger.Logger,
) *TelemetryService {
	if bus == nil {
		bus = events.Nop{}
	}
	return &TelemetryService{
		devices:   devices,
		types:     types,
		telemetry: telemetry,
		evaluator: evaluator,
		notifier:  notifier,
		bus:       bus,
		log:       log.WithComponent("telemetry"),
		now:       time.Now,
	}
}

// Ingest stores the readings of an HTTP submission and evaluates each stored
// point. tenantID scopes the device lookup; it is empty for platform admins.
//
// When every reading is invalid the response is returned together with a
// validation error so callers can still report the per-reading errors.
func (s *TelemetryService) Ingest(ctx context.Context, tenantID string, req *models.IngestRequest) (*models.IngestResponse, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return nil, apperror.Validation("deviceId is required")
	}

	readings, err := decodeReadings(req.Readings)
	if err != nil {
		return nil, err
	}

	device, err := s.devices.GetByID(ctx, tenantID, deviceID)
	if err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	return s.ingest(ctx, device, readings, "http")
}

// IngestFromDevice handles readings a device published itself. The payload
// is either {"readings": [...]} or a bare readings array.
func (s *TelemetryService) IngestFromDevice(ctx context.Context, deviceID string, payload []byte) (*models.IngestResponse, error) {
	raw := json.RawMessage(bytes.TrimSpace(payload))
	if len(raw) > 0 && raw[0] == '{' {
		var req models.IngestRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, apperror.Validation("invalid JSON payload")
		}
		raw = req.Readings
	}

	readings, err := decodeReadings(raw)
	if err != nil {
		return nil, err
	}

	device, err := s.devices.GetByID(ctx, "", deviceID)
	if err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	return s.ingest(ctx, device, readings, "mqtt")
}

func decodeReadings(raw json.RawMessage) ([]models.ReadingInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, apperror.Validation("readings is required")
	}
	if raw[0] != '[' {
		return nil, apperror.Validation("readings must be an array")
	}

	var readings []models.ReadingInput
	if err := json.Unmarshal(raw, &readings); err != nil {
		return nil, apperror.Validation("readings must be an array of {variable, value, timestamp}")
	}
	if len(readings) == 0 {
		return nil, apperror.Validation("readings must not be empty")
	}
	if len(readings) > MaxReadingsPerRequest {
		return nil, apperror.Validation("at most %d readings per request", MaxReadingsPerRequest)
	}
	return readings, nil
}

func (s *TelemetryService) ingest(ctx context.Context, device *models.Device, readings []models.ReadingInput, source string) (*models.IngestResponse, error) {
	now := s.now().UTC()
	metrics.IngestBatchSize.Observe(float64(len(readings)))

	catalog, err := s.catalog(ctx, device.DeviceTypeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load variable catalog")
	}

	resp := &models.IngestResponse{DeviceID: device.ID}
	points := make([]models.TelemetryPoint, 0, len(readings))

	for i, r := range readings {
		point, err := buildPoint(device, r, catalog, now)
		if err != nil {
			resp.Errors = append(resp.Errors, models.IngestError{Index: i, Variable: r.Variable, Error: err.Error()})
			continue
		}
		points = append(points, point)
	}

	resp.Accepted = len(points)
	resp.Rejected = len(resp.Errors)
	metrics.ReadingsTotal.WithLabelValues(source, "rejected").Add(float64(resp.Rejected))

	if len(points) == 0 {
		resp.Message = "no valid readings"
		return resp, apperror.Validation("no valid readings")
	}

	if err := s.telemetry.InsertBatch(ctx, points); err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to store telemetry")
	}
	metrics.ReadingsTotal.WithLabelValues(source, "accepted").Add(float64(len(points)))

	if err := s.devices.UpdateLastSeen(ctx, device.ID, now); err != nil {
		s.log.Warn("Failed to update last seen for %s: %v", device.ID, err)
	}

	var intents []models.NotificationIntent
	for _, p := range points {
		result, err := s.evaluator.Evaluate(ctx, p, device, catalog[p.VariableCode])
		if err != nil {
			s.log.Error("Rule evaluation failed for %s/%s: %v", device.ID, p.VariableCode, err)
		}
		if result != nil {
			intents = append(intents, result.Intents...)
		}
	}

	if len(intents) > 0 {
		if queued := s.notifier.Dispatch(intents...); queued < len(intents) {
			s.log.Warn("Dropped %d of %d notifications for device %s", len(intents)-queued, len(intents), device.ID)
		}
	}

	s.bus.Publish(device.TenantID, models.EventTelemetry, map[string]interface{}{
		"deviceId": device.ID,
		"points":   points,
	})

	resp.Success = true
	s.log.Debug("Ingested %d readings from %s (%d rejected)", resp.Accepted, device.ID, resp.Rejected)
	return resp, nil
}

func (s *TelemetryService) catalog(ctx context.Context, deviceTypeID string) (map[string]*models.DeviceTypeVariable, error) {
	vars, err := s.types.GetVariables(ctx, deviceTypeID)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]*models.DeviceTypeVariable, len(vars))
	for i := range vars {
		catalog[vars[i].VariableCode] = &vars[i]
	}
	return catalog, nil
}

func buildPoint(device *models.Device, r models.ReadingInput, catalog map[string]*models.DeviceTypeVariable, now time.Time) (models.TelemetryPoint, error) {
	code := strings.TrimSpace(r.Variable)
	if code == "" {
		return models.TelemetryPoint{}, fmt.Errorf("variable is required")
	}

	value, err := parseReadingValue(r.Value)
	if err != nil {
		return models.TelemetryPoint{}, err
	}

	captured, err := parseReadingTime(r.Timestamp, now)
	if err != nil {
		return models.TelemetryPoint{}, err
	}
	if captured.After(now.Add(maxClockSkew)) {
		return models.TelemetryPoint{}, fmt.Errorf("timestamp is in the future")
	}

	if v, ok := catalog[code]; ok && !v.InRange(value) {
		return models.TelemetryPoint{}, fmt.Errorf("value %v outside sensor range for %s", value, code)
	}

	return models.TelemetryPoint{
		TenantID:     device.TenantID,
		DeviceID:     device.ID,
		VariableCode: code,
		Value:        value,
		CapturedAt:   captured,
		ReceivedAt:   now,
	}, nil
}

// Heartbeat records a device-originated keepalive.
func (s *TelemetryService) Heartbeat(ctx context.Context, deviceID string) error {
	return s.RecordHeartbeat(ctx, "", deviceID)
}

func (s *TelemetryService) RecordHeartbeat(ctx context.Context, tenantID, deviceID string) error {
	if _, err := s.devices.GetByID(ctx, tenantID, deviceID); err != nil {
		return storeError(err, "device %s not found", deviceID)
	}

	if err := s.devices.UpdateLastSeen(ctx, deviceID, s.now().UTC()); err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "failed to record heartbeat")
	}
	return nil
}

func (s *TelemetryService) Query(ctx context.Context, req *models.TelemetryQueryRequest) (*models.TelemetryQueryResponse, error) {
	if req.Limit <= 0 {
		req.Limit = DefaultTelemetryLimit
	}
	if req.Limit > MaxTelemetryLimit {
		req.Limit = MaxTelemetryLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.StartTime != nil && req.EndTime != nil && req.EndTime.Before(*req.StartTime) {
		return nil, apperror.Validation("endTime must not be before startTime")
	}

	points, total, err := s.telemetry.Query(ctx, req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to query telemetry")
	}

	return &models.TelemetryQueryResponse{
		Data:       points,
		TotalCount: total,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}, nil
}

// GetLatest returns the newest point of each variable of a device.
func (s *TelemetryService) GetLatest(ctx context.Context, tenantID, deviceID string) ([]models.TelemetryPoint, error) {
	if _, err := s.devices.GetByID(ctx, tenantID, deviceID); err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	points, err := s.telemetry.GetLatest(ctx, tenantID, deviceID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load latest telemetry")
	}
	return points, nil
}

// GetSeries buckets a variable's values by interval (minute, hour or day).
func (s *TelemetryService) GetSeries(ctx context.Context, tenantID, deviceID, variable, interval string, start, end time.Time) ([]models.SeriesPoint, error) {
	if variable == "" {
		return nil, apperror.Validation("variable is required")
	}
	if interval == "" {
		interval = "hour"
	}
	if _, ok := repository.SeriesIntervals[interval]; !ok {
		return nil, apperror.Validation("invalid interval %q: use minute, hour or day", interval)
	}
	if end.Before(start) {
		return nil, apperror.Validation("endTime must not be before startTime")
	}

	if _, err := s.devices.GetByID(ctx, tenantID, deviceID); err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	series, err := s.telemetry.Series(ctx, tenantID, deviceID, variable, interval, start, end)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load series")
	}
	return series, nil
}
