package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/oauth"
)

func newOAuthFixture() (*OAuthHandler, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := &fakeSessionStore{}
	google := oauth.NewGoogle("gid", "gsecret", "http://localhost:4000/auth/google/callback")
	facebook := oauth.NewFacebook("fid", "fsecret", "http://localhost:4000/auth/facebook/callback")
	return NewOAuthHandler(testConfig(), users, sessions, google, facebook), users, sessions
}

func TestOAuthLogin_RedirectsWithStateCookie(t *testing.T) {
	h, _, _ := newOAuthFixture()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleLogin(e.NewContext(req, rec)))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)
	assert.Equal(t, "gid", loc.Query().Get("client_id"))
	assert.Contains(t, loc.Query().Get("scope"), "userinfo.email")

	// The state in the redirect matches the cookie set on the response.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "oauth_state", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
}

func TestOAuthCallback_RejectsStateMismatch(t *testing.T) {
	h, users, _ := newOAuthFixture()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?code=abc&state=tampered", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "original"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.FacebookCallback(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, users.users)
}

func TestOAuthCallback_RequiresCode(t *testing.T) {
	h, _, _ := newOAuthFixture()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	rec := httptest.NewRecorder()
	require.NoError(t, h.GoogleCallback(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuccessURL_EncodesProfileParams(t *testing.T) {
	h, _, _ := newOAuthFixture()

	raw := h.successURL("tok123", "Alice Smith", "alice@x.com", "https://img.example/alice.png", "google")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/auth-success", u.Path)
	assert.Equal(t, "tok123", u.Query().Get("token"))
	assert.Equal(t, "Alice Smith", u.Query().Get("name"))
	assert.Equal(t, "alice@x.com", u.Query().Get("email"))
	assert.Equal(t, "https://img.example/alice.png", u.Query().Get("profilePic"))
	assert.Equal(t, "google", u.Query().Get("type"))
}
