package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists login/logout pairs in the 'user_sessions' table.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Open inserts a session row at sign-in time.
func (r *SessionRepo) Open(ctx context.Context, userID uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_sessions (user_id, login_at) VALUES (?,?)",
		userID, at)
	return err
}

// CloseLatest stamps logout_at on the user's most recent open session.
// A sign-out without a matching open session is not an error; the user
// record itself still gets its logout_at updated by the handler.
func (r *SessionRepo) CloseLatest(ctx context.Context, userID uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE user_sessions SET logout_at=? WHERE user_id=? AND logout_at IS NULL ORDER BY login_at DESC LIMIT 1",
		at, userID)
	return err
}
