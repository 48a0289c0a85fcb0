package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messagely/internal/common"
	"messagely/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetPasswordHash(ctx context.Context, username string) (string, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
	Get(ctx context.Context, username string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.UserSummary, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.HashedPassword, user.FirstName, user.LastName, user.Phone, user.JoinAt, user.LastLoginAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("user %q already exists: %w", user.Username, common.ErrDuplicateUsername)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

// GetPasswordHash returns the stored bcrypt digest only; callers that need
// profile fields use Get, which never exposes the hash.
func (r *pgUserRepository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	query := `SELECT password FROM users WHERE username = $1`
	var hash string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("pgUserRepository.GetPasswordHash: %w", err)
	}
	return hash, nil
}

func (r *pgUserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE username = $1 RETURNING username`
	var updated string
	err := r.db.QueryRowContext(ctx, query, username, at).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("pgUserRepository.UpdateLastLogin: %w", err)
	}
	return nil
}

func (r *pgUserRepository) Get(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT username, first_name, last_name, phone, join_at, last_login_at
	          FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.FirstName, &user.LastName, &user.Phone, &user.JoinAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.Get: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) ListAll(ctx context.Context) ([]model.UserSummary, error) {
	query := `SELECT username, first_name, last_name, phone FROM users ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll: %w", err)
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListAll: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll: %w", err)
	}
	return users, nil
}
