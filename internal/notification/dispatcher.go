// Package notification delivers notification intents on a best-effort basis.
// Producers hand intents to the Dispatcher and move on; delivery, retries and
// throttling happen on background workers.
package notification

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
	"SensorHubAPI/internal/models"

	"golang.org/x/time/rate"
)

const sendTimeout = 15 * time.Second

// ErrNoRecipients is returned by senders that have nobody to deliver to.
var ErrNoRecipients = errors.New("notification has no recipients")

type Sender interface {
	Send(ctx context.Context, intent models.NotificationIntent) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, intent models.NotificationIntent) error

func (f SenderFunc) Send(ctx context.Context, intent models.NotificationIntent) error {
	return f(ctx, intent)
}

// RecipientResolver fills in addresses for intents that do not name them.
type RecipientResolver interface {
	Resolve(ctx context.Context, intent models.NotificationIntent) ([]string, error)
}

type Config struct {
	Workers      int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
	RatePerSec   float64
	// MinSeverity drops intents below the given severity per channel.
	MinSeverity map[models.Channel]models.Severity
}

type Dispatcher struct {
	cfg      Config
	senders  map[models.Channel]Sender
	limiters map[models.Channel]*rate.Limiter
	resolver RecipientResolver
	queue    chan models.NotificationIntent
	log      *logger.Logger

	mu     sync.RWMutex
	closed bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(cfg Config, resolver RecipientResolver, log *logger.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		cfg:      cfg,
		senders:  make(map[models.Channel]Sender),
		limiters: make(map[models.Channel]*rate.Limiter),
		resolver: resolver,
		queue:    make(chan models.NotificationIntent, cfg.QueueSize),
		log:      log.WithComponent("notification"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register binds a sender to a channel. Intents for channels without a sender
// are skipped. Register must be called before Start.
func (d *Dispatcher) Register(channel models.Channel, sender Sender) {
	burst := int(d.cfg.RatePerSec)
	if burst < 1 {
		burst = 1
	}
	d.senders[channel] = sender
	d.limiters[channel] = rate.NewLimiter(rate.Limit(d.cfg.RatePerSec), burst)
}

func (d *Dispatcher) Start() {
	d.log.Info("Starting %d notification workers (queue=%d, attempts=%d)", d.cfg.Workers, d.cfg.QueueSize, d.cfg.MaxAttempts)
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Dispatch queues intents without blocking and returns how many were
// accepted. Intents that do not fit in the queue are dropped.
func (d *Dispatcher) Dispatch(intents ...models.NotificationIntent) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		for _, intent := range intents {
			metrics.NotificationsTotal.WithLabelValues(string(intent.Channel), "dropped").Inc()
		}
		return 0
	}

	accepted := 0
	for _, intent := range intents {
		if intent.CreatedAt.IsZero() {
			intent.CreatedAt = time.Now()
		}
		select {
		case d.queue <- intent:
			accepted++
		default:
			d.log.Warn("Notification queue full, dropping %s intent for tenant %s", intent.Channel, intent.TenantID)
			metrics.NotificationsTotal.WithLabelValues(string(intent.Channel), "dropped").Inc()
		}
	}
	metrics.NotificationQueueSize.Set(float64(len(d.queue)))

	return accepted
}

// Shutdown stops accepting intents and waits for queued ones to be
// delivered. When ctx expires first, in-flight deliveries are cancelled.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.log.Info("Notification workers stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("notification shutdown: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for intent := range d.queue {
		metrics.NotificationQueueSize.Set(float64(len(d.queue)))
		d.process(id, intent)
	}
}

func (d *Dispatcher) process(workerID int, intent models.NotificationIntent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Notification worker %d panic recovered: %v\n%s", workerID, r, debug.Stack())
			metrics.PanicsRecovered.WithLabelValues("notification").Inc()
		}
	}()

	channel := string(intent.Channel)

	if min, ok := d.cfg.MinSeverity[intent.Channel]; ok && intent.Severity.Rank() < min.Rank() {
		metrics.NotificationsTotal.WithLabelValues(channel, "skipped").Inc()
		return
	}

	sender, ok := d.senders[intent.Channel]
	if !ok {
		d.log.Debug("No sender registered for channel %s", channel)
		metrics.NotificationsTotal.WithLabelValues(channel, "skipped").Inc()
		return
	}

	if needsRecipients(intent.Channel) && len(intent.Recipients) == 0 && d.resolver != nil {
		recipients, err := d.resolver.Resolve(d.ctx, intent)
		if err != nil {
			d.log.Error("Failed to resolve %s recipients for tenant %s: %v", channel, intent.TenantID, err)
			metrics.NotificationsTotal.WithLabelValues(channel, "failed").Inc()
			return
		}
		intent.Recipients = recipients
	}

	if needsRecipients(intent.Channel) && len(intent.Recipients) == 0 {
		d.log.Debug("No %s recipients for tenant %s, skipping", channel, intent.TenantID)
		metrics.NotificationsTotal.WithLabelValues(channel, "skipped").Inc()
		return
	}

	if err := d.deliver(sender, intent); err != nil {
		d.log.Error("Failed to deliver %s notification %q: %v", channel, intent.Subject, err)
		metrics.NotificationsTotal.WithLabelValues(channel, "failed").Inc()
		return
	}

	metrics.NotificationsTotal.WithLabelValues(channel, "sent").Inc()
}

func (d *Dispatcher) deliver(sender Sender, intent models.NotificationIntent) error {
	limiter := d.limiters[intent.Channel]

	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if err := limiter.Wait(d.ctx); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(d.ctx, sendTimeout)
		err = sender.Send(ctx, intent)
		cancel()

		if err == nil || errors.Is(err, ErrNoRecipients) {
			return err
		}

		if attempt == d.cfg.MaxAttempts {
			break
		}

		d.log.Warn("Delivery attempt %d/%d on %s failed: %v", attempt, d.cfg.MaxAttempts, intent.Channel, err)

		select {
		case <-time.After(d.cfg.RetryBackoff * time.Duration(attempt)):
		case <-d.ctx.Done():
			return d.ctx.Err()
		}
	}

	return err
}

func needsRecipients(ch models.Channel) bool {
	return ch == models.ChannelEmail || ch == models.ChannelSMS
}
