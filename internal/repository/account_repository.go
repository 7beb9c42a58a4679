package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"SensorHubAPI/internal/models"
)

type TenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	query := `
		SELECT id, name, notification_email, notification_phone
		FROM tenants
		WHERE id = $1
	`

	var t models.Tenant
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.NotificationEmail, &t.NotificationPhone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, COALESCE(tenant_id, ''), role, password_hash, totp_secret
		FROM users
		WHERE username = $1
	`

	var u models.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.TenantID, &u.Role, &u.PasswordHash, &u.TOTPSecret,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, id, secret string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET totp_secret = $2 WHERE id = $1`, id, secret)
	if err != nil {
		return fmt.Errorf("failed to set totp secret: %w", err)
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

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	query := `
		INSERT INTO api_keys (id, tenant_id, name, secret_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := r.db.QueryRowContext(ctx, query, key.ID, key.TenantID, key.Name, key.SecretHash).Scan(&key.CreatedAt); err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) GetByID(ctx context.Context, id string) (*models.APIKey, error) {
	query := `
		SELECT id, tenant_id, name, secret_hash, created_at, last_used_at, revoked_at
		FROM api_keys
		WHERE id = $1
	`

	var k models.APIKey
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&k.ID, &k.TenantID, &k.Name, &k.SecretHash, &k.CreatedAt, &k.LastUsedAt, &k.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return &k, nil
}

func (r *APIKeyRepository) List(ctx context.Context, tenantID string) ([]models.APIKey, error) {
	query := `
		SELECT id, tenant_id, name, secret_hash, created_at, last_used_at, revoked_at
		FROM api_keys
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query api keys: %w", err)
	}
	defer rows.Close()

	keys := []models.APIKey{}
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.SecretHash, &k.CreatedAt, &k.LastUsedAt, &k.RevokedAt); err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

func (r *APIKeyRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) Revoke(ctx context.Context, tenantID, id string, at time.Time) error {
	query := `
		UPDATE api_keys
		SET revoked_at = $3
		WHERE id = $1 AND tenant_id = $2 AND revoked_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID, at)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
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
