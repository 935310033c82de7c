package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/mailer"
	"github.com/iliyamo/user-auth-service/internal/middleware"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	queue_publisher "github.com/iliyamo/user-auth-service/internal/service"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// Verification tokens are deliberately short-lived: the link mailed on
// signup is valid for 8 hours, a resent link only for 1 hour.
const (
	signupVerifyTTL = 8 * time.Hour
	resendVerifyTTL = time.Hour
)

// sessionCookie is the name of the http-only cookie carrying the session
// token. Cleared on sign-out.
const sessionCookie = "token"

// AuthHandler bundles dependencies for the local auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
	Mail     mailer.Mailer
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore, m mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Mail: m}
}

// ----- DTOs -----

type signUpReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type resendReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}
type signInResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// SignUp: validate, create an unverified user and mail a verification link.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Passwords do not match"})
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email is already associated with an account"})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	uid, err := h.Users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		// A concurrent signup with the same email loses the race on the
		// unique key and lands here rather than in the lookup above.
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email is already associated with an account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, uid, signupVerifyTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue verification token failed"})
	}
	// The user row stays even if the send fails; resend-verification-email
	// recovers from here.
	if err := h.Mail.SendVerification(req.Email, h.verifyURL(tok.Token)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error in sending verification email"})
	}

	_ = queue_publisher.PublishAuthEvent(ctx, queue.AuthEvent{
		Event: queue.EventSignedUp, UserID: uid, Email: req.Email,
		At: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Registration successful. Please check your email for verification."})
}

// VerifyEmail: mark the account behind a valid verification token as
// verified. Re-verifying an already verified account succeeds.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	raw := c.QueryParam("token")
	uid, err := utils.VerifyToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.MarkVerified(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User successfully verified, please login again!"})
}

// ResendVerification: reissue a 1-hour verification token for an
// unverified account.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.IsVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email is already verified"})
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, resendVerifyTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue verification token failed"})
	}
	if err := h.Mail.SendVerification(u.Email, h.verifyURL(tok.Token)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error in sending verification email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email resent, check your e-mail"})
}

// SignIn: verify credentials, record the login and hand out a session
// token both in the body and as an http-only cookie.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Email not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// OAuth-only accounts have no password hash and cannot sign in locally.
	if u.PasswordHash == "" || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Email not verified. Please check your email for verification link."})
	}

	now := time.Now().UTC()
	if err := h.Users.RecordLogin(ctx, u.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record login failed"})
	}
	if err := h.Sessions.Open(ctx, u.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, time.Duration(h.Cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	setSessionCookie(c, tok.Token, tok.Exp)

	_ = queue_publisher.PublishAuthEvent(ctx, queue.AuthEvent{
		Event: queue.EventSignedIn, UserID: u.ID, Email: u.Email,
		At: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, signInResp{
		Message: "Login successful",
		Token:   tok.Token,
		Name:    u.Name,
		Email:   u.Email,
	})
}

// SignOut: requires the session cookie, clears it and stamps logout_at.
func (h *AuthHandler) SignOut(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token not provided"})
	}
	uid, err := utils.VerifyToken(h.Cfg.JWTSecret, cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	clearSessionCookie(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The user may have been removed since the token was issued; the
	// sign-out still succeeds, there is just nothing left to stamp.
	u, err := h.Users.GetByID(ctx, uid)
	if err == nil {
		now := time.Now().UTC()
		if err := h.Users.RecordLogout(ctx, uid, now); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record logout failed"})
		}
		_ = h.Sessions.CloseLatest(ctx, uid, now)

		_ = queue_publisher.PublishAuthEvent(ctx, queue.AuthEvent{
			Event: queue.EventSignedOut, UserID: uid, Email: u.Email,
			At: now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// ResetPassword: authenticated + verified users exchange their old
// password for a new one satisfying the policy.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token is missing or invalid"})
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == "" || !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Old password is incorrect"})
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "New passwords do not match"})
	}
	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful"})
}

// verifyURL builds the link embedded in verification mail.
func (h *AuthHandler) verifyURL(token string) string {
	return h.Cfg.BackendURL + "/verify-email?token=" + token
}

// setSessionCookie attaches the session token as an http-only secure
// cookie valid until the token itself expires.
func setSessionCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
