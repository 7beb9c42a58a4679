package service

import (
	"context"
	"fmt"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

const commandHistoryLimit = 50

var commandTypes = map[string]bool{
	"restart":       true,
	"config_update": true,
	"ota_update":    true,
	"ping":          true,
}

type CommandService struct {
	commands  repository.CommandStore
	devices   repository.DeviceStore
	publisher CommandPublisher
	log       *logger.Logger
}

// NewCommandService creates the service. publisher may be nil when no broker
// is configured; issuing then fails with an unavailable error.
func NewCommandService(
	commands repository.CommandStore,
	devices repository.DeviceStore,
	publisher CommandPublisher,
	log *logger.Logger,
) *CommandService {
	return &CommandService{
		commands:  commands,
		devices:   devices,
		publisher: publisher,
		log:       log.WithComponent("commands"),
	}
}

func (s *CommandService) Issue(ctx context.Context, p *auth.Principal, req *models.CommandRequest) (*models.Command, error) {
	if !p.CanManage() {
		return nil, apperror.Forbidden("only administrators can send device commands")
	}
	if !commandTypes[req.CommandType] {
		return nil, apperror.Validation("invalid command %q: use restart, config_update, ota_update or ping", req.CommandType)
	}
	if req.CommandType == "ota_update" {
		url, _ := req.Payload["url"].(string)
		version, _ := req.Payload["version"].(string)
		if url == "" || version == "" {
			return nil, apperror.Validation("ota_update requires url and version")
		}
	}

	device, err := s.devices.GetByID(ctx, p.Scope(), req.DeviceID)
	if err != nil {
		return nil, storeError(err, "device %s not found", req.DeviceID)
	}

	if s.publisher == nil {
		return nil, apperror.New(apperror.KindUnavailable, "device messaging is not enabled")
	}

	s.log.Info("Issuing command: type=%s, device=%s", req.CommandType, device.ID)

	cmd := &models.Command{
		TenantID:    device.TenantID,
		DeviceID:    device.ID,
		CommandType: req.CommandType,
		Payload:     req.Payload,
		Status:      models.CommandStatusPending,
	}

	if err := s.commands.Create(ctx, cmd); err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to create command")
	}

	if err := s.publisher.PublishCommand(cmd); err != nil {
		s.log.Error("Failed to send command %d: %v", cmd.ID, err)
		result := map[string]interface{}{"error": err.Error()}
		if uerr := s.commands.UpdateStatus(ctx, cmd.ID, models.CommandStatusFailed, result); uerr != nil {
			s.log.Error("Failed to mark command %d failed: %v", cmd.ID, uerr)
		}
		return nil, apperror.Wrap(err, apperror.KindUnavailable, "failed to send command")
	}

	if err := s.commands.UpdateStatus(ctx, cmd.ID, models.CommandStatusSent, nil); err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to update command")
	}
	cmd.Status = models.CommandStatusSent

	s.log.Info("Command sent successfully: id=%d, type=%s, device=%s", cmd.ID, cmd.CommandType, cmd.DeviceID)
	return cmd, nil
}

func (s *CommandService) History(ctx context.Context, p *auth.Principal, deviceID string) ([]models.Command, error) {
	if _, err := s.devices.GetByID(ctx, p.Scope(), deviceID); err != nil {
		return nil, storeError(err, "device %s not found", deviceID)
	}

	cmds, err := s.commands.ListByDevice(ctx, p.Scope(), deviceID, commandHistoryLimit)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to list commands")
	}
	return cmds, nil
}

// ProcessResult records what a device reported for one of its commands.
// Results for another device's command are rejected.
func (s *CommandService) ProcessResult(ctx context.Context, deviceID string, commandID int64, success bool, result map[string]interface{}) error {
	cmd, err := s.commands.GetByID(ctx, commandID)
	if err != nil {
		return storeError(err, "command %d not found", commandID)
	}
	if cmd.DeviceID != deviceID {
		return apperror.Forbidden("command %d was not issued to device %s", commandID, deviceID)
	}

	status := models.CommandStatusCompleted
	if !success {
		status = models.CommandStatusFailed
	}

	if err := s.commands.UpdateStatus(ctx, commandID, status, result); err != nil {
		return fmt.Errorf("failed to record result of command %d: %w", commandID, err)
	}

	s.log.Info("Command %d %s on device %s", commandID, status, deviceID)
	return nil
}
