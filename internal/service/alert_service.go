package service

import (
	"context"
	"errors"
	"time"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

type AlertService struct {
	alerts repository.AlertStore
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

func NewAlertService(alerts repository.AlertStore, bus events.Bus, log *logger.Logger) *AlertService {
	if bus == nil {
		bus = events.Nop{}
	}
	return &AlertService{
		alerts: alerts,
		bus:    bus,
		log:    log.WithComponent("alerts"),
		now:    time.Now,
	}
}

func (s *AlertService) List(ctx context.Context, p *auth.Principal, filter models.AlertFilter) (*models.AlertListResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid status %q", filter.Status)
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		return nil, apperror.Validation("invalid severity %q", filter.Severity)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = models.DefaultAlertLimit
	}
	if filter.Limit > models.MaxAlertLimit {
		filter.Limit = models.MaxAlertLimit
	}
	filter.TenantID = p.Scope()

	alerts, total, err := s.alerts.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to list alerts")
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	return &models.AlertListResponse{
		Data:       alerts,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *AlertService) Get(ctx context.Context, p *auth.Principal, id int64) (*models.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, p.Scope(), id)
	if err != nil {
		return nil, storeError(err, "alert %d not found", id)
	}
	return alert, nil
}

// UpdateStatus applies a user-driven status change. Alerts never move back
// to open; a resolved alert stays resolved and a new breach opens a new one.
func (s *AlertService) UpdateStatus(ctx context.Context, p *auth.Principal, id int64, req *models.UpdateAlertRequest) (*models.Alert, error) {
	if !p.CanManage() {
		return nil, apperror.Forbidden("only administrators can update alerts")
	}
	if !req.Status.Valid() {
		return nil, apperror.Validation("invalid status %q", req.Status)
	}

	current, err := s.alerts.GetByID(ctx, p.Scope(), id)
	if err != nil {
		return nil, storeError(err, "alert %d not found", id)
	}
	if !current.Status.CanTransition(req.Status) {
		return nil, apperror.Validation("cannot change alert status from %s to %s", current.Status, req.Status)
	}

	updated, err := s.alerts.TransitionStatus(ctx, p.Scope(), id, current.Status, req.Status, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Wrap(err, apperror.KindConflict, "alert status changed concurrently, retry")
		}
		return nil, storeError(err, "alert %d not found", id)
	}

	s.log.Info("Alert %d moved from %s to %s by %s", id, current.Status, updated.Status, p.Subject)
	s.bus.Publish(updated.TenantID, models.EventAlertUpdated, updated)
	return updated, nil
}

func (s *AlertService) Statistics(ctx context.Context, p *auth.Principal, start, end *time.Time) (*models.AlertStatistics, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperror.Validation("endDate must not be before startDate")
	}

	stats, err := s.alerts.GetStatistics(ctx, p.Scope(), start, end)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "failed to load alert statistics")
	}
	return stats, nil
}
