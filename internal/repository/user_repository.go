package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/accuaim/accuaim-server/internal/model"
	"github.com/accuaim/accuaim-server/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create validates and inserts a new user, returning its ID. The
// password is stored only as a bcrypt hash. Email uniqueness is
// case-insensitive: the address is lowercased before insert and the
// column carries a unique index.
func (r *UserRepo) Create(ctx context.Context, email, fullName, password string, cost int) (uint64, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return 0, ErrNameRequired
	}
	if !utils.IsValidEmail(email) {
		return 0, ErrInvalidEmail
	}
	email = utils.NormalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, full_name, password_hash) VALUES (?,?,?)",
		email, fullName, hash)
	if err != nil {
		// 1062 = duplicate entry on the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = utils.NormalizeEmail(email)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateProfile changes a user's display name and email. The email
// must be well formed and not held by a different account. The
// password hash is never touched here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, email string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return ErrNameRequired
	}
	if !utils.IsValidEmail(email) {
		return ErrInvalidEmail
	}
	email = utils.NormalizeEmail(email)

	var other uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? LIMIT 1", email, id).Scan(&other)
	if err == nil {
		return ErrEmailExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, email=? WHERE id=?", fullName, email, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the user is gone or the values already match;
		// distinguish by looking the row up.
		var exists uint64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM users WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword overwrites the stored hash after verifying the
// current password. A wrong current password is ErrBadCredentials;
// an unknown user is sql.ErrNoRows.
func (r *UserRepo) ChangePassword(ctx context.Context, id uint64, current, next string, cost int) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrBadCredentials
	}
	hash, err := utils.HashPassword(next, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// Delete removes a user and, in one transaction, everything they
// own transitively: shots in their sessions, the blocks, the
// sessions themselves and any refresh tokens. The current password
// must verify first.
func (r *UserRepo) Delete(ctx context.Context, id uint64, password string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return ErrBadCredentials
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"DELETE FROM shots WHERE session_id IN (SELECT id FROM practice_sessions WHERE user_id=?)",
		"DELETE FROM blocks WHERE session_id IN (SELECT id FROM practice_sessions WHERE user_id=?)",
		"DELETE FROM practice_sessions WHERE user_id=?",
		"DELETE FROM refresh_tokens WHERE user_id=?",
		"DELETE FROM users WHERE id=?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
