package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"SensorHubAPI/internal/models"

	"github.com/lib/pq"
)

const deviceColumns = `
	id, tenant_id, device_type_id, name, location, status,
	firmware_version, last_seen_at, created_at, updated_at, metadata`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type DeviceRepository struct {
	db *sql.DB
}

func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func scanDevice(row rowScanner) (*models.Device, error) {
	var d models.Device
	var metadataJSON []byte

	err := row.Scan(
		&d.ID,
		&d.TenantID,
		&d.DeviceTypeID,
		&d.Name,
		&d.Location,
		&d.Status,
		&d.Firmware,
		&d.LastSeenAt,
		&d.CreatedAt,
		&d.UpdatedAt,
		&metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &d.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &d, nil
}

func marshalMetadata(m map[string]interface{}) (interface{}, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return b, nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (
			id, tenant_id, device_type_id, name, location,
			status, firmware_version, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	metadata, err := marshalMetadata(device.Metadata)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(
		ctx, query,
		device.ID,
		device.TenantID,
		device.DeviceTypeID,
		device.Name,
		device.Location,
		device.Status,
		device.Firmware,
		metadata,
	).Scan(&device.CreatedAt, &device.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("device %s: %w", device.ID, ErrConflict)
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`

	device, err := scanDevice(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return device, nil
}

func (r *DeviceRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE ($1 = '' OR tenant_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	return collectDevices(rows)
}

func collectDevices(rows *sql.Rows) ([]models.Device, error) {
	devices := []models.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}
	return devices, nil
}

func (r *DeviceRepository) Update(ctx context.Context, tenantID, id string, updates *models.UpdateDeviceRequest) (*models.Device, error) {
	query := `
		UPDATE devices
		SET name = COALESCE($3, name),
		    location = COALESCE($4, location),
		    status = COALESCE($5, status),
		    firmware_version = COALESCE($6, firmware_version),
		    metadata = COALESCE($7, metadata),
		    updated_at = NOW()
		WHERE id = $1 AND ($2 = '' OR tenant_id = $2)
		RETURNING ` + deviceColumns

	metadata, err := marshalMetadata(updates.Metadata)
	if err != nil {
		return nil, err
	}

	device, err := scanDevice(r.db.QueryRowContext(
		ctx, query,
		id,
		tenantID,
		updates.Name,
		updates.Location,
		updates.Status,
		updates.Firmware,
		metadata,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	return device, nil
}

func (r *DeviceRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM devices WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateLastSeen never moves last_seen_at backwards, so late or replayed
// readings cannot make a device look stale.
func (r *DeviceRepository) UpdateLastSeen(ctx context.Context, id string, seenAt time.Time) error {
	query := `
		UPDATE devices
		SET last_seen_at = GREATEST(COALESCE(last_seen_at, $2), $2)
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, seenAt)
	if err != nil {
		return fmt.Errorf("failed to update last_seen_at: %w", err)
	}

	return nil
}

func (r *DeviceRepository) ListActive(ctx context.Context) ([]models.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM devices
		WHERE status = $1
		ORDER BY tenant_id, last_seen_at ASC NULLS FIRST`

	rows, err := r.db.QueryContext(ctx, query, models.DeviceStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active devices: %w", err)
	}
	defer rows.Close()

	return collectDevices(rows)
}

func (r *DeviceRepository) CountByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM devices
		WHERE ($1 = '' OR tenant_id = $1)
		GROUP BY status
	`

	return countGrouped(ctx, r.db, query, tenantID)
}

func countGrouped(ctx context.Context, db *sql.DB, query string, args ...interface{}) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}
		stats[key] = count
	}

	return stats, rows.Err()
}
