package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"SensorHubAPI/internal/models"
)

const alertColumns = `
	id, tenant_id, device_id, alert_rule_id, variable_code, value, title,
	message, severity, status, dedup_key, created_at, updated_at,
	acknowledged_at, resolved_at`

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.DeviceID,
		&a.AlertRuleID,
		&a.VariableCode,
		&a.Value,
		&a.Title,
		&a.Message,
		&a.Severity,
		&a.Status,
		&a.DedupKey,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.AcknowledgedAt,
		&a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateIfNoneActive relies on the partial unique index over
// (device_id, dedup_key) for open and acknowledged rows.
func (r *AlertRepository) CreateIfNoneActive(ctx context.Context, alert *models.Alert) (bool, error) {
	query := `
		INSERT INTO alerts (
			tenant_id, device_id, alert_rule_id, variable_code, value,
			title, message, severity, status, dedup_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (device_id, dedup_key) WHERE status IN ('open', 'acknowledged')
		DO NOTHING
		RETURNING id, created_at, updated_at
	`

	if alert.Status == "" {
		alert.Status = models.StatusOpen
	}

	err := r.db.QueryRowContext(
		ctx, query,
		alert.TenantID,
		alert.DeviceID,
		alert.AlertRuleID,
		alert.VariableCode,
		alert.Value,
		alert.Title,
		alert.Message,
		alert.Severity,
		alert.Status,
		alert.DedupKey,
	).Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create alert: %w", err)
	}

	return true, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, tenantID string, id int64) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + `
		FROM alerts
		WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`

	alert, err := scanAlert(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}

	return alert, nil
}

func (r *AlertRepository) List(ctx context.Context, filter models.AlertFilter) ([]models.Alert, int, error) {
	var conditions []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.TenantID != "" {
		add("tenant_id = $%d", filter.TenantID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Severity != "" {
		add("severity = $%d", filter.Severity)
	}
	if filter.DeviceID != "" {
		add("device_id = $%d", filter.DeviceID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM alerts %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		alertColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, total, nil
}

func (r *AlertRepository) TransitionStatus(ctx context.Context, tenantID string, id int64, from, to models.AlertStatus, at time.Time) (*models.Alert, error) {
	query := `
		UPDATE alerts
		SET status = $4,
		    updated_at = $5,
		    acknowledged_at = CASE WHEN $4 = 'acknowledged' THEN $5 ELSE acknowledged_at END,
		    resolved_at = CASE WHEN $4 = 'resolved' THEN $5 ELSE resolved_at END
		WHERE id = $1 AND ($2 = '' OR tenant_id = $2) AND status = $3
		RETURNING ` + alertColumns

	alert, err := scanAlert(r.db.QueryRowContext(ctx, query, id, tenantID, string(from), string(to), at))
	if err == nil {
		return alert, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update alert status: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1 AND ($2 = '' OR tenant_id = $2))`,
		id, tenantID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check alert: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

// ActiveDeviceIDs returns the devices holding an open or acknowledged alert
// under dedupKey.
func (r *AlertRepository) ActiveDeviceIDs(ctx context.Context, dedupKey string) (map[string]bool, error) {
	query := `
		SELECT device_id
		FROM alerts
		WHERE dedup_key = $1 AND status IN ('open', 'acknowledged')
	`

	rows, err := r.db.QueryContext(ctx, query, dedupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan device id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

func (r *AlertRepository) CloseActiveByKey(ctx context.Context, deviceID, dedupKey string, at time.Time) (int64, error) {
	query := `
		UPDATE alerts
		SET status = 'closed', updated_at = $3
		WHERE device_id = $1 AND dedup_key = $2 AND status IN ('open', 'acknowledged')
	`

	result, err := r.db.ExecContext(ctx, query, deviceID, dedupKey, at)
	if err != nil {
		return 0, fmt.Errorf("failed to close alerts: %w", err)
	}

	return result.RowsAffected()
}

func (r *AlertRepository) GetStatistics(ctx context.Context, tenantID string, start, end *time.Time) (*models.AlertStatistics, error) {
	where := `WHERE ($1 = '' OR tenant_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)`

	bySeverity, err := countGrouped(ctx, r.db, `SELECT severity, COUNT(*) FROM alerts `+where+` GROUP BY severity`, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	byStatus, err := countGrouped(ctx, r.db, `SELECT status, COUNT(*) FROM alerts `+where+` GROUP BY status`, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &models.AlertStatistics{BySeverity: bySeverity, ByStatus: byStatus}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}

// DeleteOld removes resolved and closed alerts untouched for olderThan.
func (r *AlertRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM alerts WHERE status IN ('resolved', 'closed') AND updated_at < $1`

	result, err := r.db.ExecContext(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old alerts: %w", err)
	}
	return result.RowsAffected()
}
