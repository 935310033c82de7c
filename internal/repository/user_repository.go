package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts an unverified local user and returns its ID. The caller
// supplies an already-hashed password. A duplicate email surfaces as
// ErrEmailExists whether it is caught by the lookup the handler performs
// or, under a concurrent signup race, by the unique key on users.email.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, is_verified) VALUES (?,?,?,FALSE)",
		name, email, passwordHash)
	if err != nil {
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

// CreateOAuth inserts a user that signed up through an OAuth provider.
// Such users have no local password and are verified from the start,
// since the provider already proved control of the email address.
func (r *UserRepo) CreateOAuth(ctx context.Context, name, email string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, is_verified) VALUES (?,?,NULL,TRUE)",
		name, email)
	if err != nil {
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

// GetByEmail fetches a user by email. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email=?", email)
}

// GetByID fetches a user by id. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getBy(ctx, "id=?", id)
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u    model.User
		hash sql.NullString
		last sql.NullTime
		out  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,is_verified,last_login_at,login_count,logout_at,created_at,updated_at FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.IsVerified, &last, &u.LoginCount, &out, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = hash.String
	if last.Valid {
		t := last.Time
		u.LastLoginAt = &t
	}
	if out.Valid {
		t := out.Time
		u.LogoutAt = &t
	}
	return u, nil
}

// MarkVerified flips is_verified on. Re-verifying an already verified
// user is a no-op rather than an error.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=TRUE WHERE id=?", id)
	return err
}

// UpdateName changes the display name.
func (r *UserRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=? WHERE id=?", name, id)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// RecordLogin stamps last_login_at and bumps login_count.
func (r *UserRepo) RecordLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_at=?, login_count=login_count+1 WHERE id=?", at, id)
	return err
}

// RecordLogout stamps logout_at.
func (r *UserRepo) RecordLogout(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET logout_at=? WHERE id=?", at, id)
	return err
}

// ListAll returns every user ordered by id. The dashboard endpoint
// exposes this list without the password hash column.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,password_hash,is_verified,last_login_at,login_count,logout_at,created_at,updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u    model.User
			hash sql.NullString
			last sql.NullTime
			out  sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &hash, &u.IsVerified, &last, &u.LoginCount, &out, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.PasswordHash = hash.String
		if last.Valid {
			t := last.Time
			u.LastLoginAt = &t
		}
		if out.Valid {
			t := out.Time
			u.LogoutAt = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// CountActiveSince counts users whose last login falls at or after the
// given instant.
func (r *UserRepo) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE last_login_at >= ?", since).Scan(&n)
	return n, err
}

// LoginsByDay is one bucket of the grouped last-login aggregation.
type LoginsByDay struct {
	Date  string
	Count int64
}

// LoginsPerDay groups users by the calendar day of their last login,
// starting at 'from'. Used for the rolling weekly average on the
// statistics endpoint.
func (r *UserRepo) LoginsPerDay(ctx context.Context, from time.Time) ([]LoginsByDay, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DATE(last_login_at) AS day, COUNT(id) FROM users WHERE last_login_at >= ? GROUP BY day ORDER BY day", from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []LoginsByDay
	for rows.Next() {
		var b LoginsByDay
		if err := rows.Scan(&b.Date, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
