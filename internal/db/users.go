package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new recruiter account under a tenant and returns its ID
func (db *DB) CreateUser(ctx context.Context, tenantID uuid.UUID, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().UTC()

	query := `
		INSERT INTO users (id, tenant_id, name, email, password_set, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)`

	if _, err := db.pool.Exec(ctx, query, id, tenantID, name, email, now); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil if not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, tenant_id, name, email, COALESCE(password_hash, ''), password_set, created_at, updated_at
		FROM users WHERE id = $1`

	var user User
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.TenantID, &user.Name, &user.Email,
		&user.PasswordHash, &user.PasswordSet, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil if not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, tenant_id, name, email, COALESCE(password_hash, ''), password_set, created_at, updated_at
		FROM users WHERE email = $1`

	var user User
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.TenantID, &user.Name, &user.Email,
		&user.PasswordHash, &user.PasswordSet, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// CheckEmailExists reports whether an account already uses the given email
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword stores a new bcrypt hash for the user
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, password_set = true, updated_at = $2
		WHERE id = $3`, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}
