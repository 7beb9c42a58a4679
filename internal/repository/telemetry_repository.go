package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SensorHubAPI/internal/models"

	"github.com/lib/pq"
)

// SeriesIntervals maps accepted interval names to date_trunc fields.
var SeriesIntervals = map[string]string{
	"minute": "minute",
	"hour":   "hour",
	"day":    "day",
}

type TelemetryRepository struct {
	db *sql.DB
}

func NewTelemetryRepository(db *sql.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

func (r *TelemetryRepository) InsertBatch(ctx context.Context, points []models.TelemetryPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO telemetry (
			tenant_id, device_id, variable_code, value, captured_at, received_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		_, err := stmt.ExecContext(ctx, p.TenantID, p.DeviceID, p.VariableCode, p.Value, p.CapturedAt, p.ReceivedAt)
		if err != nil {
			return fmt.Errorf("failed to insert telemetry batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *TelemetryRepository) Query(ctx context.Context, req *models.TelemetryQueryRequest) ([]models.TelemetryPoint, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if req.TenantID != "" {
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argCount))
		args = append(args, req.TenantID)
		argCount++
	}

	if len(req.DeviceIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("device_id = ANY($%d)", argCount))
		args = append(args, pq.Array(req.DeviceIDs))
		argCount++
	}

	if req.VariableCode != "" {
		conditions = append(conditions, fmt.Sprintf("variable_code = $%d", argCount))
		args = append(args, req.VariableCode)
		argCount++
	}

	if req.StartTime != nil {
		conditions = append(conditions, fmt.Sprintf("captured_at >= $%d", argCount))
		args = append(args, *req.StartTime)
		argCount++
	}

	if req.EndTime != nil {
		conditions = append(conditions, fmt.Sprintf("captured_at <= $%d", argCount))
		args = append(args, *req.EndTime)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM telemetry %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count telemetry: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT tenant_id, device_id, variable_code, value, captured_at, received_at
		FROM telemetry
		%s
		ORDER BY captured_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query telemetry: %w", err)
	}
	defer rows.Close()

	points, err := collectPoints(rows)
	if err != nil {
		return nil, 0, err
	}

	return points, totalCount, nil
}

func collectPoints(rows *sql.Rows) ([]models.TelemetryPoint, error) {
	points := []models.TelemetryPoint{}
	for rows.Next() {
		var p models.TelemetryPoint
		if err := rows.Scan(&p.TenantID, &p.DeviceID, &p.VariableCode, &p.Value, &p.CapturedAt, &p.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan telemetry: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate telemetry: %w", err)
	}
	return points, nil
}

// GetLatest returns the most recent reading of every variable of a device.
func (r *TelemetryRepository) GetLatest(ctx context.Context, tenantID, deviceID string) ([]models.TelemetryPoint, error) {
	query := `
		SELECT DISTINCT ON (variable_code)
		       tenant_id, device_id, variable_code, value, captured_at, received_at
		FROM telemetry
		WHERE device_id = $1 AND ($2 = '' OR tenant_id = $2)
		ORDER BY variable_code, captured_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest telemetry: %w", err)
	}
	defer rows.Close()

	return collectPoints(rows)
}

func (r *TelemetryRepository) ValuesByVariable(ctx context.Context, tenantID, deviceID string, start, end time.Time) (map[string][]float64, error) {
	query := `
		SELECT variable_code, value
		FROM telemetry
		WHERE device_id = $1
		  AND ($2 = '' OR tenant_id = $2)
		  AND captured_at >= $3
		  AND captured_at <= $4
		ORDER BY variable_code, captured_at
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, tenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry values: %w", err)
	}
	defer rows.Close()

	values := make(map[string][]float64)
	for rows.Next() {
		var code string
		var v float64
		if err := rows.Scan(&code, &v); err != nil {
			return nil, fmt.Errorf("failed to scan telemetry value: %w", err)
		}
		values[code] = append(values[code], v)
	}

	return values, rows.Err()
}

func (r *TelemetryRepository) Series(ctx context.Context, tenantID, deviceID, variableCode, interval string, start, end time.Time) ([]models.SeriesPoint, error) {
	field, ok := SeriesIntervals[interval]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}

	query := `
		SELECT date_trunc($1, captured_at) AS bucket,
		       COUNT(*), MIN(value), MAX(value), AVG(value)
		FROM telemetry
		WHERE device_id = $2
		  AND ($3 = '' OR tenant_id = $3)
		  AND variable_code = $4
		  AND captured_at >= $5
		  AND captured_at <= $6
		GROUP BY bucket
		ORDER BY bucket ASC
	`

	rows, err := r.db.QueryContext(ctx, query, field, deviceID, tenantID, variableCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query telemetry series: %w", err)
	}
	defer rows.Close()

	points := []models.SeriesPoint{}
	for rows.Next() {
		var p models.SeriesPoint
		if err := rows.Scan(&p.Bucket, &p.Count, &p.Min, &p.Max, &p.Avg); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

func (r *TelemetryRepository) Count(ctx context.Context, tenantID string, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM telemetry
		WHERE ($1 = '' OR tenant_id = $1)
		  AND captured_at >= $2
		  AND captured_at <= $3
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, tenantID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count telemetry: %w", err)
	}
	return count, nil
}
