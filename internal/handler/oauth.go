package handler

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/oauth"
	"github.com/iliyamo/user-auth-service/internal/queue"
	queue_publisher "github.com/iliyamo/user-auth-service/internal/service"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// stateCookie holds the random state value between the redirect and the
// callback. Ten minutes is plenty for a consent screen round trip.
const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
)

// OAuthHandler serves the federated login flows. Google and Facebook
// share every step except the provider configuration itself.
type OAuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
	Google   *oauth.Provider
	Facebook *oauth.Provider
}

func NewOAuthHandler(cfg config.Config, u UserStore, s SessionStore, g, f *oauth.Provider) *OAuthHandler {
	return &OAuthHandler{Cfg: cfg, Users: u, Sessions: s, Google: g, Facebook: f}
}

// GoogleLogin redirects the caller to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c echo.Context) error { return h.login(c, h.Google) }

// GoogleCallback finishes the Google flow.
func (h *OAuthHandler) GoogleCallback(c echo.Context) error { return h.callback(c, h.Google) }

// FacebookLogin redirects the caller to Facebook's consent screen.
func (h *OAuthHandler) FacebookLogin(c echo.Context) error { return h.login(c, h.Facebook) }

// FacebookCallback finishes the Facebook flow.
func (h *OAuthHandler) FacebookCallback(c echo.Context) error { return h.callback(c, h.Facebook) }

func (h *OAuthHandler) login(c echo.Context, p *oauth.Provider) error {
	state, err := randomState()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start oauth flow"})
	}
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(stateCookieTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

func (h *OAuthHandler) callback(c echo.Context, p *oauth.Provider) error {
	// The state query param must match the value set before the redirect.
	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid oauth state"})
	}
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing authorization code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	tok, err := p.Exchange(ctx, code)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "provider token exchange failed"})
	}
	profile, err := p.FetchProfile(ctx, tok)
	if err != nil {
		if errors.Is(err, oauth.ErrProfileIncomplete) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "provider profile incomplete"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "provider profile fetch failed"})
	}

	// Lookup-or-create: a first federated login creates the account as
	// verified and without a local password.
	u, err := h.Users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		uid, err := h.Users.CreateOAuth(ctx, profile.Name, profile.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		u, err = h.Users.GetByID(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	now := time.Now().UTC()
	if err := h.Users.RecordLogin(ctx, u.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record login failed"})
	}
	if err := h.Sessions.Open(ctx, u.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}

	session, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, time.Duration(h.Cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	setSessionCookie(c, session.Token, session.Exp)

	_ = queue_publisher.PublishAuthEvent(ctx, queue.AuthEvent{
		Event: queue.EventSignedIn, UserID: u.ID, Email: u.Email,
		At: now.Format(time.RFC3339),
	})

	return c.Redirect(http.StatusFound, h.successURL(session.Token, u.Name, u.Email, profile.Picture, p.Name))
}

// successURL builds the front-end redirect carrying the session token
// and profile data as query parameters.
func (h *OAuthHandler) successURL(token, name, email, picture, provider string) string {
	v := url.Values{}
	v.Set("token", token)
	v.Set("name", name)
	v.Set("email", email)
	v.Set("profilePic", picture)
	v.Set("type", provider)
	return h.Cfg.FrontendURL + "/auth-success?" + v.Encode()
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
