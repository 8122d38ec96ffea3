package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Token        string
	CreatedAt    time.Time
}

// UserStore handles account rows.
type UserStore struct {
	db *DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a user. It returns ErrDuplicate when the username is
// taken.
func (s *UserStore) CreateUser(ctx context.Context, username, passwordHash, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, token, created_at) VALUES (?, ?, ?, ?)`,
		username, passwordHash, token, toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %q: %w", username, ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByName fetches a user by username.
func (s *UserStore) UserByName(ctx context.Context, username string) (User, error) {
	var (
		u       User
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, token, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Token, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}

// UsernameByToken resolves a session token to its username.
func (s *UserStore) UsernameByToken(ctx context.Context, token string) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM users WHERE token = ?`, token).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return username, nil
}

// RotateToken replaces the token of user id, invalidating the previous one.
func (s *UserStore) RotateToken(ctx context.Context, id int64, token string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET token = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
