package service

import (
	"sync"
	"testing"
	"time"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/repository"

	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func fp(v float64) *float64 { return &v }

func sp(s string) *string { return &s }

type recordingNotifier struct {
	mu      sync.Mutex
	intents []models.NotificationIntent
}

func (n *recordingNotifier) Dispatch(intents ...models.NotificationIntent) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intents = append(n.intents, intents...)
	return len(intents)
}

func (n *recordingNotifier) channels() map[models.Channel]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[models.Channel]int)
	for _, in := range n.intents {
		out[in.Channel]++
	}
	return out
}

type stores struct {
	devices   *repository.MockDeviceStore
	types     *repository.MockDeviceTypeStore
	rules     *repository.MockRuleStore
	alerts    *repository.MockAlertStore
	telemetry *repository.MockTelemetryStore
	users     *repository.MockUserStore
	keys      *repository.MockAPIKeyStore
	commands  *repository.MockCommandStore
}

func newStores(t *testing.T) *stores {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &stores{
		devices:   repository.NewMockDeviceStore(ctrl),
		types:     repository.NewMockDeviceTypeStore(ctrl),
		rules:     repository.NewMockRuleStore(ctrl),
		alerts:    repository.NewMockAlertStore(ctrl),
		telemetry: repository.NewMockTelemetryStore(ctrl),
		users:     repository.NewMockUserStore(ctrl),
		keys:      repository.NewMockAPIKeyStore(ctrl),
		commands:  repository.NewMockCommandStore(ctrl),
	}
}

var (
	platformAdmin = &auth.Principal{Subject: "root", Role: auth.RolePlatformAdmin}
	acmeAdmin     = &auth.Principal{Subject: "u-acme-admin", TenantID: "acme", Role: auth.RoleTenantAdmin}
	acmeViewer    = &auth.Principal{Subject: "u-acme-viewer", TenantID: "acme", Role: auth.RoleViewer}
	globexAdmin   = &auth.Principal{Subject: "u-globex-admin", TenantID: "globex", Role: auth.RoleTenantAdmin}
)

func boiler() *models.Device {
	return &models.Device{ID: "dev-1", TenantID: "acme", DeviceTypeID: "thermo", Name: "Boiler", Status: models.DeviceStatusActive}
}
