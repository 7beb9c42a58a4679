package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"
)

// Classify labels each device online, offline or unknown from its last-seen
// time. A device exactly at the threshold is still online.
func Classify(devices []models.Device, now time.Time, threshold time.Duration) []models.DeviceHealth {
	out := make([]models.DeviceHealth, 0, len(devices))

	for _, d := range devices {
		h := models.DeviceHealth{
			DeviceID:   d.ID,
			TenantID:   d.TenantID,
			Name:       d.Name,
			LastSeenAt: d.LastSeenAt,
			State:      models.DeviceUnknown,
		}

		if d.LastSeenAt != nil {
			since := now.Sub(*d.LastSeenAt)
			hours := since.Hours()
			h.HoursSinceLastSeen = &hours

			if since > threshold {
				h.State = models.DeviceOffline
			} else {
				h.State = models.DeviceOnline
			}
		}

		out = append(out, h)
	}

	return out
}

type MonitorConfig struct {
	Threshold time.Duration
	// Interval runs the check in process as well; zero leaves scheduling to
	// the cron endpoint.
	Interval       time.Duration
	AlertRetention time.Duration
}

// DeviceMonitor detects devices that stopped reporting. Offline state is kept
// as a device_offline alert so repeated runs, and runs racing each other,
// notify once per outage.
type DeviceMonitor struct {
	devices  repository.DeviceStore
	alerts   repository.AlertStore
	notifier Notifier
	bus      events.Bus
	cfg      MonitorConfig
	log      *logger.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDeviceMonitor(
	devices repository.DeviceStore,
	alerts repository.AlertStore,
	notifier Notifier,
	bus events.Bus,
	cfg MonitorConfig,
	log *logger.Logger,
) *DeviceMonitor {
	if bus == nil {
		bus = events.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &DeviceMonitor{
		devices:  devices,
		alerts:   alerts,
		notifier: notifier,
		bus:      bus,
		cfg:      cfg,
		log:      log.WithComponent("device-monitor"),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Check classifies every active device, opens offline alerts for devices that
// just went stale and closes them for devices that came back.
func (m *DeviceMonitor) Check(ctx context.Context, trigger string) (*models.DeviceHealthReport, error) {
	report, err := m.check(ctx)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HealthChecksTotal.WithLabelValues(trigger, status).Inc()
	return report, err
}

func (m *DeviceMonitor) check(ctx context.Context) (*models.DeviceHealthReport, error) {
	now := m.now().UTC()

	devices, err := m.devices.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	active, err := m.alerts.ActiveDeviceIDs(ctx, models.DedupKeyDeviceOffline)
	if err != nil {
		return nil, fmt.Errorf("failed to load offline alerts: %w", err)
	}

	report := &models.DeviceHealthReport{
		CheckedAt:      now,
		Threshold:      m.cfg.Threshold.String(),
		TotalDevices:   len(devices),
		OfflineDevices: []models.DeviceHealth{},
	}

	var (
		newlyOffline []models.DeviceHealth
		errs         []error
	)

	for _, h := range Classify(devices, now, m.cfg.Threshold) {
		switch h.State {
		case models.DeviceOffline:
			report.Offline++
			report.OfflineDevices = append(report.OfflineDevices, h)

			created, err := m.alerts.CreateIfNoneActive(ctx, offlineAlert(h, m.cfg.Threshold, now))
			if err != nil {
				m.log.Error("Failed to record offline alert for %s: %v", h.DeviceID, err)
				errs = append(errs, err)
				continue
			}
			if created {
				metrics.AlertsOpened.WithLabelValues(string(models.SeverityWarning), "health").Inc()
				newlyOffline = append(newlyOffline, h)
			}

		case models.DeviceOnline:
			report.Online++
			if !active[h.DeviceID] {
				continue
			}

			closed, err := m.alerts.CloseActiveByKey(ctx, h.DeviceID, models.DedupKeyDeviceOffline, now)
			if err != nil {
				m.log.Error("Failed to close offline alert for %s: %v", h.DeviceID, err)
				errs = append(errs, err)
				continue
			}
			if closed > 0 {
				report.Recovered++
				m.log.Info("Device %s is back online", h.DeviceID)
				m.bus.Publish(h.TenantID, models.EventDeviceOnline, h)
			}

		default:
			report.Unknown++
		}
	}

	report.NewlyOffline = len(newlyOffline)
	report.Intents = OfflineIntents(newlyOffline, m.cfg.Threshold, now)
	if len(report.Intents) > 0 {
		report.NotificationsSent = m.notifier.Dispatch(report.Intents...)
	}

	metrics.DevicesOffline.Set(float64(report.Offline))
	m.log.Info("Device health: %d total, %d online, %d offline (%d new), %d unknown, %d recovered",
		report.TotalDevices, report.Online, report.Offline, report.NewlyOffline, report.Unknown, report.Recovered)

	return report, errors.Join(errs...)
}

func offlineAlert(h models.DeviceHealth, threshold time.Duration, now time.Time) *models.Alert {
	hours := *h.HoursSinceLastSeen
	return &models.Alert{
		TenantID: h.TenantID,
		DeviceID: h.DeviceID,
		Value:    &hours,
		Title:    fmt.Sprintf("Device offline: %s", displayName(h)),
		Message: fmt.Sprintf("%s has not reported for %.1f hours (threshold %s)",
			displayName(h), hours, threshold),
		Severity:  models.SeverityWarning,
		Status:    models.StatusOpen,
		DedupKey:  models.DedupKeyDeviceOffline,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func displayName(h models.DeviceHealth) string {
	if h.Name != "" {
		return h.Name
	}
	return h.DeviceID
}

// OfflineIntents builds, for devices that just went offline, one realtime
// event per device, one email and webhook per tenant, and one email digest
// for the platform administrators.
func OfflineIntents(newlyOffline []models.DeviceHealth, threshold time.Duration, now time.Time) []models.NotificationIntent {
	if len(newlyOffline) == 0 {
		return nil
	}

	byTenant := make(map[string][]models.DeviceHealth)
	for _, h := range newlyOffline {
		byTenant[h.TenantID] = append(byTenant[h.TenantID], h)
	}

	tenants := make([]string, 0, len(byTenant))
	for t := range byTenant {
		tenants = append(tenants, t)
	}
	sort.Strings(tenants)

	var intents []models.NotificationIntent

	for _, h := range newlyOffline {
		intents = append(intents, models.NotificationIntent{
			Channel:   models.ChannelRealtime,
			TenantID:  h.TenantID,
			DeviceID:  h.DeviceID,
			Severity:  models.SeverityWarning,
			Subject:   fmt.Sprintf("Device offline: %s", displayName(h)),
			Event:     models.EventDeviceOffline,
			Data:      map[string]interface{}{"device": h},
			CreatedAt: now,
		})
	}

	for _, tenant := range tenants {
		devices := byTenant[tenant]
		subject := fmt.Sprintf("[WARNING] %d device(s) offline", len(devices))
		body := offlineBody(devices, threshold)

		for _, ch := range []models.Channel{models.ChannelEmail, models.ChannelWebhook} {
			intents = append(intents, models.NotificationIntent{
				Channel:   ch,
				TenantID:  tenant,
				Severity:  models.SeverityWarning,
				Subject:   subject,
				Body:      body,
				Event:     models.EventDeviceOffline,
				CreatedAt: now,
			})
		}
	}

	intents = append(intents, models.NotificationIntent{
		Channel:   models.ChannelEmail,
		Severity:  models.SeverityWarning,
		Subject:   fmt.Sprintf("[WARNING] %d device(s) offline across %d tenant(s)", len(newlyOffline), len(tenants)),
		Body:      offlineBody(newlyOffline, threshold),
		Event:     models.EventDeviceOffline,
		CreatedAt: now,
	})

	return intents
}

func offlineBody(devices []models.DeviceHealth, threshold time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following devices have not reported for more than %s:\n\n", threshold)
	for _, h := range devices {
		fmt.Fprintf(&b, "- %s (%s, tenant %s): last seen %s, %.1f hours ago\n",
			displayName(h), h.DeviceID, h.TenantID,
			h.LastSeenAt.UTC().Format(time.RFC3339), *h.HoursSinceLastSeen)
	}
	return b.String()
}

// Start runs the check on the configured interval and prunes old alerts
// hourly. It returns immediately when no interval is configured.
func (m *DeviceMonitor) Start() {
	if m.cfg.Interval <= 0 {
		m.log.Info("In-process device monitor disabled; waiting for cron trigger")
		return
	}

	m.log.Info("Starting device monitor (every %s, offline after %s)", m.cfg.Interval, m.cfg.Threshold)

	m.wg.Add(1)
	go m.runChecks()

	if m.cfg.AlertRetention > 0 {
		m.wg.Add(1)
		go m.runCleanup()
	}
}

func (m *DeviceMonitor) Shutdown() {
	m.log.Info("Shutting down device monitor...")
	m.cancel()
	m.wg.Wait()
	m.log.Info("Device monitor stopped")
}

func (m *DeviceMonitor) runChecks() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Check(m.ctx, "ticker"); err != nil {
				m.log.Error("Scheduled device health check failed: %v", err)
			}
		}
	}
}

func (m *DeviceMonitor) runCleanup() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			count, err := m.alerts.DeleteOld(m.ctx, m.cfg.AlertRetention)
			if err != nil {
				m.log.Error("Failed to prune old alerts: %v", err)
			} else if count > 0 {
				m.log.Info("Pruned %d old alerts", count)
			}
		}
	}
}
