package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/user-auth-service/internal/utils" // token verification
)

// userIDKey is the context key under which JWTAuth stores the
// authenticated user's id.  Handlers read it back through UserID().
const userIDKey = "user_id"

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject claim into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware should wrap protected routes so that handlers can access the
// authenticated user id via middleware.UserID(c).  Verification is purely
// cryptographic: expired and malformed tokens are both rejected with 401,
// and no user lookup happens here (RequireVerified does that where the
// route demands it).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token is missing or invalid"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            uid, err := utils.VerifyToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token is missing or invalid"})
            }

            // Store the decoded user id as a typed value rather than the
            // raw claims map; downstream code never touches the JWT again.
            c.Set(userIDKey, uid)
            return next(c)
        }
    }
}

// UserID returns the authenticated user id stored by JWTAuth.  The second
// return value is false when the request did not pass through JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
    uid, ok := c.Get(userIDKey).(uint64)
    return uid, ok
}
