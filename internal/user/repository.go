package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByEmail(ctx context.Context, email string) (*User, error)
	getUserByID(ctx context.Context, id string) (*User, error)
	updateHashToken(ctx context.Context, id, hashToken string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.HashToken, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) getUser(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `
		SELECT id, email, name, password_hash, hash_token, created_at, updated_at
		FROM users
		WHERE ` + where

	var user User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "email = $1", email)
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *userRepository) updateHashToken(ctx context.Context, id, hashToken string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET hash_token = $1, updated_at = NOW() WHERE id = $2`, hashToken, id)
	if err != nil {
		return fmt.Errorf("could not update hash token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not update hash token: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
