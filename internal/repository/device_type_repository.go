package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"SensorHubAPI/internal/models"
)

type DeviceTypeRepository struct {
	db *sql.DB
}

func NewDeviceTypeRepository(db *sql.DB) *DeviceTypeRepository {
	return &DeviceTypeRepository{db: db}
}

func (r *DeviceTypeRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM device_types WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check device type: %w", err)
	}
	return exists, nil
}

func (r *DeviceTypeRepository) GetVariables(ctx context.Context, deviceTypeID string) ([]models.DeviceTypeVariable, error) {
	query := `
		SELECT device_type_id, variable_code, label, unit, min_value, max_value, is_alertable
		FROM device_type_variables
		WHERE device_type_id = $1
		ORDER BY variable_code
	`

	rows, err := r.db.QueryContext(ctx, query, deviceTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variables: %w", err)
	}
	defer rows.Close()

	vars := []models.DeviceTypeVariable{}
	for rows.Next() {
		var v models.DeviceTypeVariable
		if err := rows.Scan(&v.DeviceTypeID, &v.VariableCode, &v.Label, &v.Unit, &v.MinValue, &v.MaxValue, &v.IsAlertable); err != nil {
			return nil, fmt.Errorf("failed to scan variable: %w", err)
		}
		vars = append(vars, v)
	}

	return vars, rows.Err()
}

func (r *DeviceTypeRepository) GetVariable(ctx context.Context, deviceTypeID, variableCode string) (*models.DeviceTypeVariable, error) {
	query := `
		SELECT device_type_id, variable_code, label, unit, min_value, max_value, is_alertable
		FROM device_type_variables
		WHERE device_type_id = $1 AND variable_code = $2
	`

	var v models.DeviceTypeVariable
	err := r.db.QueryRowContext(ctx, query, deviceTypeID, variableCode).Scan(
		&v.DeviceTypeID, &v.VariableCode, &v.Label, &v.Unit, &v.MinValue, &v.MaxValue, &v.IsAlertable,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get variable: %w", err)
	}

	return &v, nil
}

func (r *DeviceTypeRepository) UpsertVariable(ctx context.Context, v *models.DeviceTypeVariable) error {
	query := `
		INSERT INTO device_type_variables (
			device_type_id, variable_code, label, unit, min_value, max_value, is_alertable
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (device_type_id, variable_code) DO UPDATE
		SET label = EXCLUDED.label,
		    unit = EXCLUDED.unit,
		    min_value = EXCLUDED.min_value,
		    max_value = EXCLUDED.max_value,
		    is_alertable = EXCLUDED.is_alertable
	`

	_, err := r.db.ExecContext(ctx, query, v.DeviceTypeID, v.VariableCode, v.Label, v.Unit, v.MinValue, v.MaxValue, v.IsAlertable)
	if err != nil {
		return fmt.Errorf("failed to upsert variable: %w", err)
	}
	return nil
}
