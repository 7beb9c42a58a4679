package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func seenAgo(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func TestClassify(t *testing.T) {
	devices := []models.Device{
		{ID: "fresh", LastSeenAt: seenAgo(time.Minute)},
		{ID: "edge", LastSeenAt: seenAgo(time.Hour)},
		{ID: "stale", LastSeenAt: seenAgo(time.Hour + time.Second)},
		{ID: "never"},
	}

	got := Classify(devices, testNow, time.Hour)
	require.Len(t, got, 4)

	assert.Equal(t, models.DeviceOnline, got[0].State)
	assert.Equal(t, models.DeviceOnline, got[1].State, "exactly at threshold is online")
	assert.Equal(t, models.DeviceOffline, got[2].State)
	assert.Equal(t, models.DeviceUnknown, got[3].State)
	assert.Nil(t, got[3].HoursSinceLastSeen)
	assert.InDelta(t, 1.0, *got[1].HoursSinceLastSeen, 1e-9)
}

func newMonitor(t *testing.T) (*DeviceMonitor, *stores, *recordingNotifier, *[]string) {
	st := newStores(t)
	notifier := &recordingNotifier{}
	var published []string
	bus := events.BusFunc(func(tenantID, eventType string, _ interface{}) {
		published = append(published, tenantID+":"+eventType)
	})

	m := NewDeviceMonitor(st.devices, st.alerts, notifier, bus, MonitorConfig{Threshold: time.Hour}, logger.Nop())
	m.now = fixedNow
	return m, st, notifier, &published
}

func TestDeviceMonitor_Check(t *testing.T) {
	m, st, notifier, published := newMonitor(t)
	ctx := context.Background()

	st.devices.EXPECT().ListActive(ctx).Return([]models.Device{
		{ID: "a1", TenantID: "acme", Name: "Boiler", LastSeenAt: seenAgo(3 * time.Hour)},
		{ID: "a2", TenantID: "acme", LastSeenAt: seenAgo(5 * time.Hour)},
		{ID: "g1", TenantID: "globex", LastSeenAt: seenAgo(2 * time.Hour)},
		{ID: "g2", TenantID: "globex", LastSeenAt: seenAgo(time.Minute)},
		{ID: "g3", TenantID: "globex", LastSeenAt: seenAgo(time.Minute)},
		{ID: "n1", TenantID: "acme"},
	}, nil)
	st.alerts.EXPECT().ActiveDeviceIDs(ctx, models.DedupKeyDeviceOffline).Return(map[string]bool{"a2": true, "g2": true}, nil)

	st.alerts.EXPECT().CreateIfNoneActive(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *models.Alert) (bool, error) {
		assert.Equal(t, models.DedupKeyDeviceOffline, a.DedupKey)
		assert.Equal(t, models.SeverityWarning, a.Severity)
		return a.DeviceID != "a2", nil
	}).Times(3)
	st.alerts.EXPECT().CloseActiveByKey(ctx, "g2", models.DedupKeyDeviceOffline, testNow).Return(int64(1), nil)

	report, err := m.Check(ctx, "cron")
	require.NoError(t, err)

	assert.Equal(t, 6, report.TotalDevices)
	assert.Equal(t, 3, report.Offline)
	assert.Equal(t, 2, report.Online)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 2, report.NewlyOffline, "a2 was already alerted")
	assert.Equal(t, 1, report.Recovered)

	ch := notifier.channels()
	assert.Equal(t, 2, ch[models.ChannelRealtime])
	assert.Equal(t, 2, ch[models.ChannelWebhook], "one per tenant")
	assert.Equal(t, 3, ch[models.ChannelEmail], "one per tenant plus the admin digest")
	assert.Equal(t, len(notifier.intents), report.NotificationsSent)
	assert.Equal(t, []string{"globex:" + models.EventDeviceOnline}, *published)
}

func TestDeviceMonitor_CheckNothingNew(t *testing.T) {
	m, st, notifier, _ := newMonitor(t)
	ctx := context.Background()

	st.devices.EXPECT().ListActive(ctx).Return([]models.Device{
		{ID: "a1", TenantID: "acme", LastSeenAt: seenAgo(3 * time.Hour)},
	}, nil)
	st.alerts.EXPECT().ActiveDeviceIDs(ctx, models.DedupKeyDeviceOffline).Return(map[string]bool{"a1": true}, nil)
	st.alerts.EXPECT().CreateIfNoneActive(ctx, gomock.Any()).Return(false, nil)

	report, err := m.Check(ctx, "ticker")
	require.NoError(t, err)
	assert.Zero(t, report.NewlyOffline)
	assert.Empty(t, notifier.intents)
}

func TestDeviceMonitor_CheckPartialFailure(t *testing.T) {
	m, st, _, _ := newMonitor(t)
	ctx := context.Background()

	st.devices.EXPECT().ListActive(ctx).Return([]models.Device{
		{ID: "a1", TenantID: "acme", LastSeenAt: seenAgo(3 * time.Hour)},
		{ID: "a2", TenantID: "acme", LastSeenAt: seenAgo(3 * time.Hour)},
	}, nil)
	st.alerts.EXPECT().ActiveDeviceIDs(ctx, models.DedupKeyDeviceOffline).Return(nil, nil)
	gomock.InOrder(
		st.alerts.EXPECT().CreateIfNoneActive(ctx, gomock.Any()).Return(false, errors.New("deadlock")),
		st.alerts.EXPECT().CreateIfNoneActive(ctx, gomock.Any()).Return(true, nil),
	)

	report, err := m.Check(ctx, "cron")
	assert.ErrorContains(t, err, "deadlock")
	require.NotNil(t, report)
	assert.Equal(t, 1, report.NewlyOffline)
}

func TestDeviceMonitor_CheckListFails(t *testing.T) {
	m, st, _, _ := newMonitor(t)
	st.devices.EXPECT().ListActive(gomock.Any()).Return(nil, errors.New("down"))

	_, err := m.Check(context.Background(), "cron")
	assert.Error(t, err)
}

func TestOfflineIntents(t *testing.T) {
	assert.Nil(t, OfflineIntents(nil, time.Hour, testNow))

	hours := 2.0
	intents := OfflineIntents([]models.DeviceHealth{
		{DeviceID: "g1", TenantID: "globex", LastSeenAt: seenAgo(2 * time.Hour), HoursSinceLastSeen: &hours},
		{DeviceID: "a1", TenantID: "acme", Name: "Boiler", LastSeenAt: seenAgo(2 * time.Hour), HoursSinceLastSeen: &hours},
	}, time.Hour, testNow)

	require.Len(t, intents, 7)
	assert.Equal(t, "Device offline: Boiler", intents[1].Subject)
	assert.Equal(t, "acme", intents[2].TenantID, "tenants are sorted")

	digest := intents[len(intents)-1]
	assert.Equal(t, models.ChannelEmail, digest.Channel)
	assert.Empty(t, digest.TenantID)
	assert.Equal(t, "[WARNING] 2 device(s) offline across 2 tenant(s)", digest.Subject)
	assert.Contains(t, digest.Body, "Boiler (a1, tenant acme)")
}

func TestDeviceMonitor_StartWithoutInterval(t *testing.T) {
	m, _, _, _ := newMonitor(t)
	m.Start()
	m.Shutdown()
}
