package service

import (
	"context"
	"strings"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultDeviceLimit = 50
	MaxDeviceLimit     = 500
)

type DeviceService struct {
	devices repository.DeviceStore
	types   repository.DeviceTypeStore
	log     *logger.Logger
}

func NewDeviceService(devices repository.DeviceStore, types repository.DeviceTypeStore, log *logger.Logger) *DeviceService {
	return &DeviceService{
		devices: devices,
		types:   types,
		log:     log.WithComponent("devices"),
	}
}

func (s *DeviceService) Create(ctx context.Context, p *auth.Principal, req *models.CreateDeviceRequest) (*models.Device, error) {
	if !p.CanManage() {
		return nil, apperror.Forbidden("only administrators can register devices")
	}

	tenantID := p.TenantID
	if p.IsPlatformAdmin() && req.TenantID != "" {
		tenantID = req.TenantID
	}
	if tenantID == "" {
		return nil, apperror.Validation("tenantId is required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if req.DeviceTypeID == "" {
		return nil, apperror.Validation("deviceTypeId is required")
	}

	exists, err := s.types.Exists(ctx, req.DeviceTypeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to check device type")
	}
	if !exists {
		return nil, apperror.NotFound("device type %s not found", req.DeviceTypeID)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	device := &models.Device{
		ID:           id,
		TenantID:     tenantID,
		DeviceTypeID: req.DeviceTypeID,
		Name:         name,
		Location:     req.Location,
		Status:       models.DeviceStatusActive,
		Firmware:     req.Firmware,
		Metadata:     req.Metadata,
	}

	if err := s.devices.Create(ctx, device); err != nil {
		return nil, storeError(err, "device %s already exists", id)
	}

	s.log.Info("Device registered: %s (%s) for tenant %s", device.ID, device.DeviceTypeID, device.TenantID)
	return device, nil
}

func (s *DeviceService) Get(ctx context.Context, p *auth.Principal, id string) (*models.Device, error) {
	device, err := s.devices.GetByID(ctx, p.Scope(), id)
	if err != nil {
		return nil, storeError(err, "device %s not found", id)
	}
	return device, nil
}

func (s *DeviceService) List(ctx context.Context, p *auth.Principal, limit, offset int) ([]models.Device, error) {
	if limit <= 0 {
		limit = DefaultDeviceLimit
	}
	if limit > MaxDeviceLimit {
		limit = MaxDeviceLimit
	}
	if offset < 0 {
		offset = 0
	}

	devices, err := s.devices.List(ctx, p.Scope(), limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to list devices")
	}
	if devices == nil {
		devices = []models.Device{}
	}
	return devices, nil
}

func (s *DeviceService) Update(ctx context.Context, p *auth.Principal, id string, req *models.UpdateDeviceRequest) (*models.Device, error) {
	if !p.CanManage() {
		return nil, apperror.Forbidden("only administrators can change devices")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperror.Validation("name may not be empty")
	}
	if req.Status != nil && *req.Status != models.DeviceStatusActive && *req.Status != models.DeviceStatusInactive {
		return nil, apperror.Validation("invalid status %q: use active or inactive", *req.Status)
	}

	device, err := s.devices.Update(ctx, p.Scope(), id, req)
	if err != nil {
		return nil, storeError(err, "device %s not found", id)
	}

	s.log.Info("Device updated: %s", id)
	return device, nil
}

func (s *DeviceService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if !p.CanManage() {
		return apperror.Forbidden("only administrators can delete devices")
	}
	if err := s.devices.Delete(ctx, p.Scope(), id); err != nil {
		return storeError(err, "device %s not found", id)
	}

	s.log.Info("Device deleted: %s", id)
	return nil
}

// Variables returns the catalog of the device type.
func (s *DeviceService) Variables(ctx context.Context, deviceTypeID string) ([]models.DeviceTypeVariable, error) {
	exists, err := s.types.Exists(ctx, deviceTypeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to check device type")
	}
	if !exists {
		return nil, apperror.NotFound("device type %s not found", deviceTypeID)
	}

	vars, err := s.types.GetVariables(ctx, deviceTypeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load variable catalog")
	}
	if vars == nil {
		vars = []models.DeviceTypeVariable{}
	}
	return vars, nil
}

// UpsertVariable changes the shared catalog and is reserved for platform
// administrators.
func (s *DeviceService) UpsertVariable(ctx context.Context, p *auth.Principal, v *models.DeviceTypeVariable) error {
	if !p.IsPlatformAdmin() {
		return apperror.Forbidden("only platform administrators can change the variable catalog")
	}
	v.VariableCode = strings.TrimSpace(v.VariableCode)
	if v.VariableCode == "" {
		return apperror.Validation("variableCode is required")
	}
	if v.MinValue != nil && v.MaxValue != nil && *v.MinValue > *v.MaxValue {
		return apperror.Validation("minValue must not exceed maxValue")
	}

	exists, err := s.types.Exists(ctx, v.DeviceTypeID)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "failed to check device type")
	}
	if !exists {
		return apperror.NotFound("device type %s not found", v.DeviceTypeID)
	}

	if err := s.types.UpsertVariable(ctx, v); err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "failed to save variable")
	}

	s.log.Info("Variable %s/%s saved", v.DeviceTypeID, v.VariableCode)
	return nil
}
