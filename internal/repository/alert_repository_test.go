package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"SensorHubAPI/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertAlertSQL = `INSERT INTO alerts .* ` + regexp.QuoteMeta(
		`ON CONFLICT (device_id, dedup_key) WHERE status IN ('open', 'acknowledged') DO NOTHING RETURNING id, created_at, updated_at`)
	transitionAlertSQL = `UPDATE alerts SET status = \$4.* ` + regexp.QuoteMeta(
		`WHERE id = $1 AND ($2 = '' OR tenant_id = $2) AND status = $3 RETURNING`)
	alertExistsSQL = regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1`)
	closeByKeySQL  = `UPDATE alerts SET status = 'closed'.* ` + regexp.QuoteMeta(
		`WHERE device_id = $1 AND dedup_key = $2 AND status IN ('open', 'acknowledged')`)
	alertColumnNames = []string{
		"id", "tenant_id", "device_id", "alert_rule_id", "variable_code", "value", "title",
		"message", "severity", "status", "dedup_key", "created_at", "updated_at",
		"acknowledged_at", "resolved_at",
	}
)

func newAlertRepo(t *testing.T) (*AlertRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAlertRepository(db), mock
}

func ruleAlert() *models.Alert {
	ruleID := int64(3)
	value := 45.5
	return &models.Alert{
		TenantID:     "acme",
		DeviceID:     "dev-1",
		AlertRuleID:  &ruleID,
		VariableCode: "temperature",
		Value:        &value,
		Title:        "Temperature high",
		Message:      "temperature 45.50 > 40.00",
		Severity:     models.SeverityCritical,
		DedupKey:     models.RuleDedupKey(3),
	}
}

func TestAlertRepository_CreateIfNoneActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newAlertRepo(t)
		alert := ruleAlert()

		mock.ExpectQuery(insertAlertSQL).
			WithArgs("acme", "dev-1", int64(3), "temperature", 45.5, "Temperature high",
				"temperature 45.50 > 40.00", "critical", "open", "rule:3").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

		created, err := repo.CreateIfNoneActive(context.Background(), alert)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(11), alert.ID)
		assert.Equal(t, models.StatusOpen, alert.Status)
		assert.Equal(t, now, alert.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	// Acknowledged alerts sit inside the conflict predicate, so they suppress
	// new alerts under the same key just like open ones.
	t.Run("active alert exists", func(t *testing.T) {
		repo, mock := newAlertRepo(t)
		alert := ruleAlert()

		mock.ExpectQuery(insertAlertSQL).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

		created, err := repo.CreateIfNoneActive(context.Background(), alert)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Zero(t, alert.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newAlertRepo(t)
		boom := errors.New("connection reset")

		mock.ExpectQuery(insertAlertSQL).WillReturnError(boom)

		created, err := repo.CreateIfNoneActive(context.Background(), ruleAlert())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAlertRepository_TransitionStatus(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := created.Add(10 * time.Minute)

	t.Run("success", func(t *testing.T) {
		repo, mock := newAlertRepo(t)

		mock.ExpectQuery(transitionAlertSQL).
			WithArgs(int64(11), "acme", "open", "acknowledged", at).
			WillReturnRows(sqlmock.NewRows(alertColumnNames).AddRow(
				int64(11), "acme", "dev-1", int64(3), "temperature", 45.5, "Temperature high",
				"temperature 45.50 > 40.00", "critical", "acknowledged", "rule:3", created, at,
				at, nil,
			))

		alert, err := repo.TransitionStatus(context.Background(), "acme", 11, models.StatusOpen, models.StatusAcknowledged, at)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAcknowledged, alert.Status)
		assert.Equal(t, models.SeverityCritical, alert.Severity)
		require.NotNil(t, alert.AlertRuleID)
		assert.Equal(t, int64(3), *alert.AlertRuleID)
		require.NotNil(t, alert.AcknowledgedAt)
		assert.Equal(t, at, *alert.AcknowledgedAt)
		assert.Nil(t, alert.ResolvedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newAlertRepo(t)

		mock.ExpectQuery(transitionAlertSQL).
			WithArgs(int64(99), "acme", "open", "acknowledged", at).
			WillReturnRows(sqlmock.NewRows(alertColumnNames))
		mock.ExpectQuery(alertExistsSQL).
			WithArgs(int64(99), "acme").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		alert, err := repo.TransitionStatus(context.Background(), "acme", 99, models.StatusOpen, models.StatusAcknowledged, at)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, alert)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved underneath", func(t *testing.T) {
		repo, mock := newAlertRepo(t)

		mock.ExpectQuery(transitionAlertSQL).
			WithArgs(int64(11), "acme", "open", "resolved", at).
			WillReturnRows(sqlmock.NewRows(alertColumnNames))
		mock.ExpectQuery(alertExistsSQL).
			WithArgs(int64(11), "acme").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		alert, err := repo.TransitionStatus(context.Background(), "acme", 11, models.StatusOpen, models.StatusResolved, at)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Nil(t, alert)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAlertRepository_CloseActiveByKey(t *testing.T) {
	repo, mock := newAlertRepo(t)
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	mock.ExpectExec(closeByKeySQL).
		WithArgs("dev-1", models.DedupKeyDeviceOffline, at).
		WillReturnResult(sqlmock.NewResult(0, 2))

	closed, err := repo.CloseActiveByKey(context.Background(), "dev-1", models.DedupKeyDeviceOffline, at)
	require.NoError(t, err)
	assert.Equal(t, int64(2), closed)
	require.NoError(t, mock.ExpectationsWereMet())
}
