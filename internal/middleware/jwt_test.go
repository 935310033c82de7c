package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/utils"
)

const testSecret = "test-secret"

// passThrough records whether the wrapped handler ran and what user id
// the middleware stored.
func passThrough(ran *bool, uid *uint64) echo.HandlerFunc {
	return func(c echo.Context) error {
		*ran = true
		if id, ok := UserID(c); ok {
			*uid = id
		}
		return c.NoContent(http.StatusOK)
	}
}

func runJWTAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, uint64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	var (
		ran bool
		uid uint64
	)
	h := JWTAuth(testSecret)(passThrough(&ran, &uid))
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, ran, uid
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, ran, _ := runJWTAuth(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ran {
		t.Fatal("handler ran without a bearer token")
	}
}

func TestJWTAuth_NotBearer(t *testing.T) {
	rec, ran, _ := runJWTAuth(t, "Basic abc123")
	if rec.Code != http.StatusUnauthorized || ran {
		t.Fatalf("status = %d, ran = %v; want 401 and no handler run", rec.Code, ran)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	rec, ran, _ := runJWTAuth(t, "Bearer garbage")
	if rec.Code != http.StatusUnauthorized || ran {
		t.Fatalf("status = %d, ran = %v; want 401 and no handler run", rec.Code, ran)
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, 5, -time.Minute)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	rec, ran, _ := runJWTAuth(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusUnauthorized || ran {
		t.Fatalf("status = %d, ran = %v; want 401 and no handler run", rec.Code, ran)
	}
}

func TestJWTAuth_ValidTokenInjectsUserID(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	rec, ran, uid := runJWTAuth(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK || !ran {
		t.Fatalf("status = %d, ran = %v; want 200 and handler run", rec.Code, ran)
	}
	if uid != 42 {
		t.Fatalf("user id in context = %d, want 42", uid)
	}
}
