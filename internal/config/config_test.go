package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "sensorhub")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "sensorhub")
}

func TestLoad_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("CRON_SECRET", "cron-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Hour, cfg.Monitor.OfflineThreshold)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "X-Cron-Secret", cfg.Security.CronSecretHeader)
	assert.Equal(t, 720*time.Hour, cfg.Reports.DefaultWindow)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingRequired(t *testing.T) {
	setDBEnv(t)
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_MQTTRequiredWhenEnabled(t *testing.T) {
	setDBEnv(t)
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT_BROKER")
}

func TestLoad_Lists(t *testing.T) {
	setDBEnv(t)
	t.Setenv("ADMIN_ALERT_EMAILS", "ops@example.com, , noc@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com", "noc@example.com"}, cfg.Monitor.AdminEmails)
}

func TestValidate(t *testing.T) {
	setDBEnv(t)
	t.Setenv("CRON_SECRET", "cron-secret")

	cfg, err := Load()
	require.NoError(t, err)

	cfg.Security.CronSecret = ""
	cfg.Security.JWTSecret = "short"
	cfg.Notification.Workers = 0

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_SECRET")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "NOTIFY_WORKERS")
}

func TestGetEnvAsDuration_FallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")
	assert.Equal(t, 5*time.Second, getEnvAsDuration("SOME_DURATION", "5s"))
}
