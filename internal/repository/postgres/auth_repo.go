// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"quinto-service/internal/domain/auth"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// CreateIdentity inserts a new account. Email uniqueness is enforced by the
// identities_email_key constraint.
func (r *AuthRepository) CreateIdentity(ctx context.Context, id *auth.Identity) error {
	query := `
		INSERT INTO identities (email, password_hash, full_name, phone, roles, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		id.Email, id.PasswordHash, id.FullName, id.Phone, id.Roles, id.IsActive,
	).Scan(&id.ID, &id.CreatedAt, &id.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

// FindByEmail retrieves an identity by email
func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := `
		SELECT id, email, password_hash, full_name, phone, roles, is_active, created_at, updated_at
		FROM identities
		WHERE email = $1
	`

	var id auth.Identity
	err := r.db.QueryRow(ctx, query, email).Scan(
		&id.ID, &id.Email, &id.PasswordHash, &id.FullName, &id.Phone,
		&id.Roles, &id.IsActive, &id.CreatedAt, &id.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &id, nil
}

// FindByID retrieves an identity by ID
func (r *AuthRepository) FindByID(ctx context.Context, identityID int64) (*auth.Identity, error) {
	query := `
		SELECT id, email, password_hash, full_name, phone, roles, is_active, created_at, updated_at
		FROM identities
		WHERE id = $1
	`

	var id auth.Identity
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&id.ID, &id.Email, &id.PasswordHash, &id.FullName, &id.Phone,
		&id.Roles, &id.IsActive, &id.CreatedAt, &id.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return &id, nil
}

// UpdateProfile patches mutable profile fields.
func (r *AuthRepository) UpdateProfile(ctx context.Context, identityID int64, fullName, phone *string) error {
	query := `
		UPDATE identities
		SET full_name = COALESCE($2, full_name),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, identityID, fullName, phone)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// CountByRole returns the number of active accounts holding a role, used by
// the admin overview.
func (r *AuthRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	query := `SELECT COUNT(*) FROM identities WHERE $1 = ANY(roles) AND is_active`

	var count int64
	if err := r.db.QueryRow(ctx, query, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}
	return count, nil
}
