package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/model"
)

func TestUserStatistics(t *testing.T) {
	users := newFakeUserStore()
	h := NewStatsHandler(users)
	e := echo.New()

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	lastMonth := now.AddDate(0, -1, 0)

	users.add(model.User{Name: "A", Email: "a@x.com", IsVerified: true, LastLoginAt: &now})
	users.add(model.User{Name: "B", Email: "b@x.com", IsVerified: true, LastLoginAt: &yesterday})
	users.add(model.User{Name: "C", Email: "c@x.com", IsVerified: true, LastLoginAt: &lastMonth})
	users.add(model.User{Name: "D", Email: "d@x.com"}) // never signed in

	req := httptest.NewRequest(http.MethodGet, "/user-statistics", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.UserStatistics(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statisticsResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.TotalUsers)
	assert.Equal(t, int64(1), resp.ActiveSessionsToday)
	// Two logins in the rolling week, averaged over 7 days.
	assert.InDelta(t, 2.0/7, resp.AverageSessionsLast7Days, 1e-9)
}

func TestDashboard_ListsUsersWithoutCredentials(t *testing.T) {
	users := newFakeUserStore()
	h := NewStatsHandler(users)
	e := echo.New()

	users.add(model.User{Name: "A", Email: "a@x.com", PasswordHash: "$2a$04$secret", IsVerified: true, LoginCount: 3})
	users.add(model.User{Name: "B", Email: "b@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Dashboard(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dashboardUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "a@x.com", resp[0].Email)
	assert.Equal(t, uint32(3), resp[0].LoginCount)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestProfile_GetAndUpdate(t *testing.T) {
	users := newFakeUserStore()
	h := NewProfileHandler(users)
	e := echo.New()

	u := users.add(model.User{Name: "Alice", Email: "alice@x.com", IsVerified: true})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", u.ID)
	require.NoError(t, h.GetProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@x.com")

	req = httptest.NewRequest(http.MethodPut, "/profile", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("user_id", uint64(999))
	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_UpdateName(t *testing.T) {
	users := newFakeUserStore()
	h := NewProfileHandler(users)
	e := echo.New()

	u := users.add(model.User{Name: "Alice", Email: "alice@x.com", IsVerified: true})

	body := `{"name":"Alice Cooper"}`
	req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", u.ID)
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Alice Cooper", users.users[u.ID].Name)
}
