package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver map[models.Channel][]string

func (r staticResolver) Resolve(_ context.Context, intent models.NotificationIntent) ([]string, error) {
	return r[intent.Channel], nil
}

func testConfig() Config {
	return Config{
		Workers:      2,
		QueueSize:    16,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
		RatePerSec:   1000,
	}
}

func TestDispatcher_DeliversAndResolvesRecipients(t *testing.T) {
	var mu sync.Mutex
	var got []models.NotificationIntent

	d := NewDispatcher(testConfig(), staticResolver{models.ChannelEmail: {"ops@acme.test"}}, logger.Nop())
	d.Register(models.ChannelEmail, SenderFunc(func(_ context.Context, in models.NotificationIntent) error {
		mu.Lock()
		got = append(got, in)
		mu.Unlock()
		return nil
	}))
	d.Start()

	n := d.Dispatch(models.NotificationIntent{Channel: models.ChannelEmail, TenantID: "acme", Subject: "hi"})
	assert.Equal(t, 1, n)

	require.NoError(t, d.Shutdown(context.Background()))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"ops@acme.test"}, got[0].Recipients)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32

	d := NewDispatcher(testConfig(), nil, logger.Nop())
	d.Register(models.ChannelWebhook, SenderFunc(func(context.Context, models.NotificationIntent) error {
		if calls.Add(1) < 3 {
			return errors.New("gateway unavailable")
		}
		return nil
	}))
	d.Start()

	d.Dispatch(models.NotificationIntent{Channel: models.ChannelWebhook})
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32

	d := NewDispatcher(testConfig(), nil, logger.Nop())
	d.Register(models.ChannelWebhook, SenderFunc(func(context.Context, models.NotificationIntent) error {
		calls.Add(1)
		return errors.New("always failing")
	}))
	d.Start()

	d.Dispatch(models.NotificationIntent{Channel: models.ChannelWebhook})
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatcher_SkipsWithoutSenderOrRecipients(t *testing.T) {
	var calls atomic.Int32

	d := NewDispatcher(testConfig(), staticResolver{}, logger.Nop())
	d.Register(models.ChannelEmail, SenderFunc(func(context.Context, models.NotificationIntent) error {
		calls.Add(1)
		return nil
	}))
	d.Start()

	d.Dispatch(
		models.NotificationIntent{Channel: models.ChannelEmail, TenantID: "no-contacts"},
		models.NotificationIntent{Channel: models.ChannelSMS, TenantID: "acme"},
	)
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Zero(t, calls.Load())
}

func TestDispatcher_MinSeverity(t *testing.T) {
	var calls atomic.Int32

	cfg := testConfig()
	cfg.MinSeverity = map[models.Channel]models.Severity{models.ChannelWebhook: models.SeverityWarning}

	d := NewDispatcher(cfg, nil, logger.Nop())
	d.Register(models.ChannelWebhook, SenderFunc(func(context.Context, models.NotificationIntent) error {
		calls.Add(1)
		return nil
	}))
	d.Start()

	d.Dispatch(
		models.NotificationIntent{Channel: models.ChannelWebhook, Severity: models.SeverityInfo},
		models.NotificationIntent{Channel: models.ChannelWebhook, Severity: models.SeverityCritical},
	)
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 2

	// Not started: nothing drains the queue.
	d := NewDispatcher(cfg, nil, logger.Nop())

	intent := models.NotificationIntent{Channel: models.ChannelRealtime}
	assert.Equal(t, 2, d.Dispatch(intent, intent, intent))
	assert.Equal(t, 0, d.Dispatch(intent))
}

func TestDispatcher_DispatchAfterShutdown(t *testing.T) {
	d := NewDispatcher(testConfig(), nil, logger.Nop())
	d.Start()
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, 0, d.Dispatch(models.NotificationIntent{Channel: models.ChannelEmail}))
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_ShutdownTimeoutCancelsDelivery(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 1

	d := NewDispatcher(cfg, nil, logger.Nop())
	d.Register(models.ChannelWebhook, SenderFunc(func(ctx context.Context, _ models.NotificationIntent) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	d.Start()
	d.Dispatch(models.NotificationIntent{Channel: models.ChannelWebhook})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcher_RecoversSenderPanic(t *testing.T) {
	var calls atomic.Int32

	cfg := testConfig()
	cfg.Workers = 1
	cfg.MaxAttempts = 1

	d := NewDispatcher(cfg, nil, logger.Nop())
	d.Register(models.ChannelWebhook, SenderFunc(func(context.Context, models.NotificationIntent) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return nil
	}))
	d.Start()

	d.Dispatch(models.NotificationIntent{Channel: models.ChannelWebhook}, models.NotificationIntent{Channel: models.ChannelWebhook})
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, int32(2), calls.Load())
}
