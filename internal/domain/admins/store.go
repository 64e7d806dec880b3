package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, admin *Admin) error {
	query := `
	  INSERT INTO admins (id, email, display_name, role, password)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.Role == "" {
		admin.Role = "admin"
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))

	err := r.db.QueryRow(
		ctx, query, admin.ID, admin.Email, admin.DisplayName, admin.Role, admin.Password.hash,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Admin, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Admin, error) {
	query := `
	  SELECT id, email, display_name, role, password, COALESCE(refresh_token, ''), created_at, updated_at
	  FROM admins ` + where

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var a Admin
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&a.Role,
		&a.Password.hash,
		&a.RefreshToken,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

func (r *Repository) SaveRefreshToken(ctx context.Context, adminID, refreshToken string) error {
	return r.setRefreshToken(ctx, adminID, &refreshToken)
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, adminID string) error {
	return r.setRefreshToken(ctx, adminID, nil)
}

func (r *Repository) setRefreshToken(ctx context.Context, adminID string, token *string) error {
	query := `UPDATE admins SET refresh_token = $1, updated_at = now() WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, token, adminID)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, adminID string) (string, error) {
	query := `SELECT COALESCE(refresh_token, '') FROM admins WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var token string
	if err := r.db.QueryRow(ctx, query, adminID).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return token, nil
}
