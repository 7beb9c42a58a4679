package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SensorHubAPI/internal/auth"
	"SensorHubAPI/internal/config"
	"SensorHubAPI/internal/evaluator"
	"SensorHubAPI/internal/handler"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/middleware"
	"SensorHubAPI/internal/models"
	"SensorHubAPI/internal/ratelimit"
	"SensorHubAPI/internal/repository"
	"SensorHubAPI/internal/service"
	"SensorHubAPI/internal/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type nopNotifier struct{}

func (nopNotifier) Dispatch(intents ...models.NotificationIntent) int { return len(intents) }

type okDB struct{}

func (okDB) Health(_ context.Context) error { return nil }

type testEnv struct {
	server *Server
	tokens *auth.TokenManager
	keys   *repository.MockAPIKeyStore
	alerts *repository.MockAlertStore
	device *repository.MockDeviceStore
}

func newTestEnv(t *testing.T, limiter ratelimit.Store) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logger.Nop()

	devices := repository.NewMockDeviceStore(ctrl)
	types := repository.NewMockDeviceTypeStore(ctrl)
	rules := repository.NewMockRuleStore(ctrl)
	alerts := repository.NewMockAlertStore(ctrl)
	telemetry := repository.NewMockTelemetryStore(ctrl)
	users := repository.NewMockUserStore(ctrl)
	keys := repository.NewMockAPIKeyStore(ctrl)
	commands := repository.NewMockCommandStore(ctrl)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, MaxBodyBytes: 1024},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"*"},
			CORSAllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			CronSecret:         "s3cret",
			CronSecretHeader:   "X-Cron-Secret",
			APIKeyHeader:       "X-API-Key",
		},
	}

	tokens := auth.NewTokenManager("test-secret", "sensorhub", time.Hour)
	authn := middleware.NewAuthenticator(tokens, keys, cfg.Security.APIKeyHeader, log)
	hub := websocket.NewHub(log)

	telemetryService := service.NewTelemetryService(devices, types, telemetry, evaluator.New(rules, alerts, log), nopNotifier{}, nil, log)
	monitor := service.NewDeviceMonitor(devices, alerts, nopNotifier{}, nil, service.MonitorConfig{Threshold: time.Hour}, log)

	srv := New(cfg, log)
	srv.RegisterHandlers(Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(users, keys, tokens, auth.LocalVerifier{}, service.AuthConfig{}, log), log),
		Telemetry: handler.NewTelemetryHandler(telemetryService, log),
		Rules:     handler.NewRuleHandler(service.NewRuleService(rules, types, log), log),
		Alerts:    handler.NewAlertHandler(service.NewAlertService(alerts, nil, log), log),
		Devices:   handler.NewDeviceHandler(service.NewDeviceService(devices, types, log), telemetryService, log),
		Commands:  handler.NewCommandHandler(service.NewCommandService(commands, devices, nil, log), log),
		Reports:   handler.NewReportHandler(service.NewReportService(devices, types, telemetry, alerts, service.ReportConfig{}, log), log),
		Health:    handler.NewHealthHandler(okDB{}, nil, monitor, log),
		Realtime:  handler.NewRealtimeHandler(hub, authn, log),
	}, authn, limiter)

	return &testEnv{server: srv, tokens: tokens, keys: keys, alerts: alerts, device: devices}
}

func (e *testEnv) token(t *testing.T, p auth.Principal) string {
	t.Helper()
	tok, _, err := e.tokens.Issue(p)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRouting_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouting_ViewerCannotIngest(t *testing.T) {
	env := newTestEnv(t, nil)
	viewer := env.token(t, auth.Principal{Subject: "u1", TenantID: "acme", Role: auth.RoleViewer})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/telemetry/ingest", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)

	env.alerts.EXPECT().GetStatistics(gomock.Any(), "acme", gomock.Nil(), gomock.Nil()).Return(&models.AlertStatistics{}, nil)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts/stats", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	assert.Equal(t, http.StatusOK, env.do(req).Code)
}

func TestRouting_IngestKeyIsWriteOnly(t *testing.T) {
	env := newTestEnv(t, nil)

	key, err := auth.GenerateAPIKey()
	require.NoError(t, err)

	env.keys.EXPECT().GetByID(gomock.Any(), key.ID).Return(&models.APIKey{
		ID: key.ID, TenantID: "acme", Name: "gateway", SecretHash: key.Hash,
	}, nil).Times(2)
	env.keys.EXPECT().Touch(gomock.Any(), key.ID, gomock.Any()).Return(nil).Times(2)

	// Reaches the handler: the body is rejected, not the caller.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telemetry/ingest", strings.NewReader(`{}`))
	req.Header.Set("X-API-Key", key.Key)
	assert.Equal(t, http.StatusBadRequest, env.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("X-API-Key", key.Key)
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)
}

func TestRouting_CronSecret(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/cron/device-health", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.device.EXPECT().ListActive(gomock.Any()).Return(nil, nil)
	env.alerts.EXPECT().ActiveDeviceIDs(gomock.Any(), models.DedupKeyDeviceOffline).Return(map[string]bool{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/device-health", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	assert.Equal(t, http.StatusOK, env.do(req).Code)
}

func TestRouting_Preflight(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/rules", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rec := env.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouting_BodyLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	admin := env.token(t, auth.Principal{Subject: "u2", TenantID: "acme", Role: auth.RoleTenantAdmin})

	body := `{"deviceId":"dev-1","readings":"` + strings.Repeat("x", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telemetry/ingest", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusRequestEntityTooLarge, env.do(req).Code)
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func TestRouting_RateLimitCoversAPI(t *testing.T) {
	env := newTestEnv(t, denyAll{})

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
