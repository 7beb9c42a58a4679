package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"SensorHubAPI/internal/models"
)

const ruleColumns = `
	id, tenant_id, device_type_id, variable_code, operator, threshold1,
	threshold2, severity, message_template, is_active, created_at, updated_at`

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func scanRule(row rowScanner) (*models.AlertRule, error) {
	var rule models.AlertRule
	err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.DeviceTypeID,
		&rule.VariableCode,
		&rule.Operator,
		&rule.Threshold1,
		&rule.Threshold2,
		&rule.Severity,
		&rule.MessageTemplate,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func collectRules(rows *sql.Rows) ([]models.AlertRule, error) {
	rules := []models.AlertRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}

func (r *RuleRepository) Create(ctx context.Context, rule *models.AlertRule) error {
	query := `
		INSERT INTO alert_rules (
			tenant_id, device_type_id, variable_code, operator, threshold1,
			threshold2, severity, message_template, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		rule.TenantID,
		rule.DeviceTypeID,
		rule.VariableCode,
		rule.Operator,
		rule.Threshold1,
		rule.Threshold2,
		rule.Severity,
		rule.MessageTemplate,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create alert rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id int64) (*models.AlertRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM alert_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert rule: %w", err)
	}

	return rule, nil
}

func (r *RuleRepository) Update(ctx context.Context, rule *models.AlertRule) error {
	query := `
		UPDATE alert_rules
		SET variable_code = $2,
		    operator = $3,
		    threshold1 = $4,
		    threshold2 = $5,
		    severity = $6,
		    message_template = $7,
		    is_active = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		rule.ID,
		rule.VariableCode,
		rule.Operator,
		rule.Threshold1,
		rule.Threshold2,
		rule.Severity,
		rule.MessageTemplate,
		rule.IsActive,
	).Scan(&rule.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update alert rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alert_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
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

// List returns the tenant's own rules together with the global ones.
func (r *RuleRepository) List(ctx context.Context, tenantID string) ([]models.AlertRule, error) {
	query := `SELECT ` + ruleColumns + `
		FROM alert_rules
		WHERE ($1 = '' OR tenant_id = $1 OR tenant_id IS NULL)
		ORDER BY device_type_id, variable_code, id`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

func (r *RuleRepository) FindApplicable(ctx context.Context, tenantID, deviceTypeID, variableCode string) ([]models.AlertRule, error) {
	query := `SELECT ` + ruleColumns + `
		FROM alert_rules
		WHERE (tenant_id = $1 OR tenant_id IS NULL)
		  AND device_type_id = $2
		  AND variable_code = $3
		  AND is_active
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tenantID, deviceTypeID, variableCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicable rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}
