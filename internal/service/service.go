package service

import (
	"context"
	"errors"
	"fmt"

	"SensorHubAPI/internal/apperror"
	"SensorHubAPI/internal/evaluator"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

// Notifier accepts notification intents for best-effort delivery. Dispatch
// never blocks and reports how many intents were queued.
type Notifier interface {
	Dispatch(intents ...models.NotificationIntent) int
}

// RuleEvaluator checks one telemetry point against the alert rules.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, point models.TelemetryPoint, device *models.Device, variable *models.DeviceTypeVariable) (*evaluator.Result, error)
}

// CommandPublisher delivers a command to a device.
type CommandPublisher interface {
	PublishCommand(cmd *models.Command) error
}

// storeError maps repository sentinels to service error kinds. Anything else
// is internal and keeps its cause for the log.
func storeError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.Wrap(err, apperror.KindNotFound, msg)
	case errors.Is(err, repository.ErrConflict):
		return apperror.Wrap(err, apperror.KindConflict, msg)
	default:
		return apperror.Wrap(err, apperror.KindInternal, msg)
	}
}
