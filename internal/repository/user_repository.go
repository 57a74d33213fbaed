package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quickcourt/quickcourt-backend/internal/model"
)

// UserRepo provides account persistence: registration, lookup for login,
// OTP verification state and admin moderation.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new account and returns its generated ID.  The email
// must already be normalized (trimmed, lower-cased) and the password
// hashed.  A duplicate email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName, role string) (uint64, error) {
	const q = `INSERT INTO users (email, password_hash, full_name, role, status, is_verified)
	           VALUES (?, ?, ?, ?, 'active', 0)`
	res, err := r.db.ExecContext(ctx, q, email, passwordHash, fullName, role)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail loads an account by email for login.  Returns ErrUserNotFound
// when no such account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, full_name, role, status, is_verified, created_at, updated_at
	           FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

// GetByID loads an account by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = `SELECT id, email, password_hash, full_name, role, status, is_verified, created_at, updated_at
	           FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// MarkVerified flips the verification flag after a successful OTP check.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_verified = 1 WHERE id = ?`, id)
	return err
}

// SetStatus updates the moderation status (active/banned).  Returns
// ErrUserNotFound when the account does not exist.
func (r *UserRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "already in that status".
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}
	}
	return nil
}

// List returns all accounts ordered by creation time, newest first.  Used by
// the admin moderation screen.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT id, email, password_hash, full_name, role, status, is_verified, created_at, updated_at
	           FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
			&u.Status, &u.Verified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.Status, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
