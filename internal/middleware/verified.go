package middleware // middleware provides shared request processing for handlers

import (
    "context"  // context for the user lookup
    "database/sql" // sql.ErrNoRows detection
    "errors"   // errors.Is
    "net/http" // http package defines standard HTTP status codes
    "time"     // lookup timeout

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/user-auth-service/internal/model"
)

// UserLoader is the single-method store dependency of RequireVerified.
// *repository.UserRepo satisfies it; tests use a fake.
type UserLoader interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RequireVerified returns a middleware function that enforces that the
// authenticated user's email address has been verified.  It assumes
// JWTAuth ran earlier in the chain and stored the user id in the
// context.  The user row is loaded on every request; a missing row or
// an unverified flag both abort with 403 Forbidden.  This is the
// "secondary check" gate: the bearer token alone proves identity, not
// that the account ever confirmed its email.
func RequireVerified(users UserLoader) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, ok := UserID(c)
            if !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByID(ctx, uid)
            if err != nil {
                if errors.Is(err, sql.ErrNoRows) {
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification check failed"})
            }
            if !u.IsVerified {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
            }
            return next(c)
        }
    }
}
