package handler

import (
	"context"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/repository"
)

// UserStore is the credential-store surface the handlers consume.  It is
// satisfied by *repository.UserRepo; tests plug in an in-memory fake.
// Lookups return sql.ErrNoRows when nothing matches and Create returns
// repository.ErrEmailExists on a duplicate email, including the case
// where two concurrent signups race past the existence check and the
// second insert hits the unique key.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (uint64, error)
	CreateOAuth(ctx context.Context, name, email string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	MarkVerified(ctx context.Context, id uint64) error
	UpdateName(ctx context.Context, id uint64, name string) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	RecordLogin(ctx context.Context, id uint64, at time.Time) error
	RecordLogout(ctx context.Context, id uint64, at time.Time) error
	ListAll(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
	LoginsPerDay(ctx context.Context, from time.Time) ([]repository.LoginsByDay, error)
}

// SessionStore records login/logout pairs. Satisfied by *repository.SessionRepo.
type SessionStore interface {
	Open(ctx context.Context, userID uint64, at time.Time) error
	CloseLatest(ctx context.Context, userID uint64, at time.Time) error
}
