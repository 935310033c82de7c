package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-auth-service/internal/model"
)

// StatsHandler serves the public aggregate endpoints. Both are good
// candidates for the Redis response cache since they only change on
// signup and login.
type StatsHandler struct {
	Users UserStore
}

func NewStatsHandler(u UserStore) *StatsHandler { return &StatsHandler{Users: u} }

type statisticsResp struct {
	TotalUsers               int64   `json:"totalUsers"`
	ActiveSessionsToday      int64   `json:"activeSessionsToday"`
	AverageSessionsLast7Days float64 `json:"averageSessionsLast7Days"`
}

type dashboardUser struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	LoginCount  uint32     `json:"loginCount"`
	LogoutAt    *time.Time `json:"logoutAt"`
}

// UserStatistics returns the total user count, the number of users who
// signed in today and the rolling 7-day average of daily sign-ins,
// derived from the grouped last-login aggregation.
func (h *StatsHandler) UserStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	activeToday, err := h.Users.CountActiveSince(ctx, startOfDay)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	weekAgo := startOfDay.AddDate(0, 0, -7)
	buckets, err := h.Users.LoginsPerDay(ctx, weekAgo)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var weekTotal int64
	for _, b := range buckets {
		weekTotal += b.Count
	}

	return c.JSON(http.StatusOK, statisticsResp{
		TotalUsers:               total,
		ActiveSessionsToday:      activeToday,
		AverageSessionsLast7Days: float64(weekTotal) / 7,
	})
}

// Dashboard lists every user without credential fields.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]dashboardUser, 0, len(users))
	for _, u := range users {
		out = append(out, toDashboardUser(u))
	}
	return c.JSON(http.StatusOK, out)
}

func toDashboardUser(u model.User) dashboardUser {
	return dashboardUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
		LoginCount:  u.LoginCount,
		LogoutAt:    u.LogoutAt,
	}
}
