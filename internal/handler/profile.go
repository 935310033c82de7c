package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/middleware"
)

// ProfileHandler serves the bearer-protected profile endpoints.
type ProfileHandler struct {
	Users UserStore
}

func NewProfileHandler(u UserStore) *ProfileHandler { return &ProfileHandler{Users: u} }

type profileResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateProfileReq struct {
	Name string `json:"name"`
}

// GetProfile returns the authenticated user's id, name and email.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token is missing or invalid"})
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
	return c.JSON(http.StatusOK, profileResp{ID: u.ID, Name: u.Name, Email: u.Email})
}

// UpdateProfile changes the authenticated user's display name.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token is missing or invalid"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
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
	name := strings.TrimSpace(req.Name)
	if err := h.Users.UpdateName(ctx, uid, name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update name failed"})
	}
	return c.JSON(http.StatusOK, profileResp{ID: u.ID, Name: name, Email: u.Email})
}
