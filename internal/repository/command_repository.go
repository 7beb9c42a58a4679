package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"SensorHubAPI/internal/models"
)

type CommandRepository struct {
	db *sql.DB
}

func NewCommandRepository(db *sql.DB) *CommandRepository {
	return &CommandRepository{db: db}
}

func scanCommand(row rowScanner) (*models.Command, error) {
	var cmd models.Command
	var payloadJSON, resultJSON []byte

	err := row.Scan(
		&cmd.ID,
		&cmd.TenantID,
		&cmd.DeviceID,
		&cmd.CommandType,
		&payloadJSON,
		&cmd.IssuedAt,
		&cmd.ExecutedAt,
		&cmd.Status,
		&resultJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &cmd.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal command payload: %w", err)
		}
	}
	if len(resultJSON) > 0 {
		if err := json.Unmarshal(resultJSON, &cmd.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal command result: %w", err)
		}
	}

	return &cmd, nil
}

func (r *CommandRepository) Create(ctx context.Context, cmd *models.Command) error {
	query := `
		INSERT INTO commands (tenant_id, device_id, command_type, payload, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, issued_at
	`

	payloadJSON := []byte("{}")
	if cmd.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(cmd.Payload)
		if err != nil {
			return fmt.Errorf("failed to marshal command payload: %w", err)
		}
	}

	err := r.db.QueryRowContext(
		ctx, query,
		cmd.TenantID,
		cmd.DeviceID,
		cmd.CommandType,
		payloadJSON,
		cmd.Status,
	).Scan(&cmd.ID, &cmd.IssuedAt)

	if err != nil {
		return fmt.Errorf("failed to create command: %w", err)
	}

	return nil
}

func (r *CommandRepository) GetByID(ctx context.Context, id int64) (*models.Command, error) {
	query := `
		SELECT id, tenant_id, device_id, command_type, payload, issued_at,
		       executed_at, status, result
		FROM commands
		WHERE id = $1
	`

	cmd, err := scanCommand(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get command: %w", err)
	}

	return cmd, nil
}

func (r *CommandRepository) ListByDevice(ctx context.Context, tenantID, deviceID string, limit int) ([]models.Command, error) {
	query := `
		SELECT id, tenant_id, device_id, command_type, payload, issued_at,
		       executed_at, status, result
		FROM commands
		WHERE device_id = $1 AND ($2 = '' OR tenant_id = $2)
		ORDER BY issued_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	commands := []models.Command{}
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands = append(commands, *cmd)
	}

	return commands, rows.Err()
}

func (r *CommandRepository) UpdateStatus(ctx context.Context, id int64, status string, result map[string]interface{}) error {
	query := `
		UPDATE commands
		SET status = $2,
		    result = $3,
		    executed_at = CASE
		        WHEN $2 IN ('completed', 'failed') THEN NOW()
		        ELSE executed_at
		    END
		WHERE id = $1
	`

	resultJSON := []byte("{}")
	if result != nil {
		var err error
		resultJSON, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal command result: %w", err)
		}
	}

	res, err := r.db.ExecContext(ctx, query, id, status, resultJSON)
	if err != nil {
		return fmt.Errorf("failed to update command status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
