package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"portfolioAPI/internal/content"
	"portfolioAPI/internal/testutil"
	"portfolioAPI/internal/types/activity"
	"portfolioAPI/internal/types/calendar"
	"portfolioAPI/internal/types/contact"
	"portfolioAPI/middleware"
	"portfolioAPI/services"
)

type testServer struct {
	handler      http.Handler
	activityRepo *testutil.FakeActivityRepository
	contactRepo  *testutil.FakeContactRepository
	progress     *ProgressHandler
}

func verifyToken(ctx context.Context, token string) (string, error) {
	switch token {
	case "owner":
		return "user_owner", nil
	case "visitor":
		return "user_visitor", nil
	}
	return "", errors.New("invalid token")
}

func newTestServer(t *testing.T, withDB bool) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	c, err := content.Load("")
	require.NoError(t, err)

	ts := &testServer{}
	var activityRepo services.ActivityRepository
	var contactRepo services.ContactRepository
	if withDB {
		ts.activityRepo = &testutil.FakeActivityRepository{}
		ts.contactRepo = &testutil.FakeContactRepository{}
		activityRepo = ts.activityRepo
		contactRepo = ts.contactRepo
	}

	ts.progress = NewProgressHandler(services.NewActivityService(c.Progress, activityRepo, logger), time.UTC, logger)
	ts.progress.now = func() time.Time {
		return time.Date(2025, time.January, 15, 23, 30, 0, 0, time.UTC)
	}

	ts.handler = NewRouter(RouterConfig{
		Progress: ts.progress,
		Contact:  NewContactHandler(services.NewContactService(contactRepo, nil, logger), logger),
		Projects: NewProjectsHandler(c.Projects),
		Health:   NewHealthHandler(nil),
		Auth:     middleware.NewAuth(verifyToken, []string{"user_owner"}, logger),
		Logger:   logger,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestGetProgress(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/api/v1/progress", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp activity.ProgressResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, []string{"All", "Frontend", "Backend", "UI/UX"}, resp.Categories)

	rr = ts.do(t, http.MethodGet, "/api/v1/progress?category=Frontend", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Frontend", resp.Selected)
	assert.Equal(t, 2, resp.Count)
}

func TestGetCalendar(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/api/v1/progress/calendar", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view calendar.MonthView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, 0, view.MonthIndex)
	assert.Equal(t, "January", view.MonthName)
	assert.True(t, view.IsCurrentMonth)
	require.Len(t, view.Contributions, 31)
	require.Len(t, view.Cells, 3+31)
	assert.Nil(t, view.Cells[0])
	assert.True(t, view.Contributions[1])  // 2025-01-02
	assert.False(t, view.Contributions[3]) // 2025-01-04, failed
	assert.True(t, view.Contributions[5])  // 2025-01-06
	assert.True(t, view.Contributions[9])  // 2025-01-10
	assert.True(t, view.Cells[3+14].IsToday)
}

func TestGetCalendar_PreviousMonth(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/api/v1/progress/calendar?offset=-1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view calendar.MonthView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, 11, view.MonthIndex)
	assert.False(t, view.IsCurrentMonth)
	assert.Zero(t, view.ContributedDays())
}

func TestGetCalendar_LogsContributedDays(t *testing.T) {
	ts := newTestServer(t, false)
	core, logs := observer.New(zap.DebugLevel)
	ts.progress.logger = zap.New(core)

	rr := ts.do(t, http.MethodGet, "/api/v1/progress/calendar", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	entries := logs.FilterMessage("calendar built").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["contributed_days"])
	assert.Equal(t, "January", fields["month"])
}

func TestGetCalendar_UsesConfiguredLocation(t *testing.T) {
	ts := newTestServer(t, false)
	loc := time.FixedZone("IST", 5*3600+1800)
	ts.progress.location = loc
	// 23:30 UTC on Jan 31 is already February 1st in IST.
	ts.progress.now = func() time.Time {
		return time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	}

	rr := ts.do(t, http.MethodGet, "/api/v1/progress/calendar", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var view calendar.MonthView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.MonthIndex)
}

func TestGetCalendar_InvalidOffset(t *testing.T) {
	ts := newTestServer(t, false)

	for _, q := range []string{"offset=1", "offset=abc", "offset=1.5"} {
		rr := ts.do(t, http.MethodGet, "/api/v1/progress/calendar?"+q, "", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestGetProjects(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/api/v1/projects", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Projects []content.Project `json:"projects"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "SaaS Dashboard", resp.Projects[1].Title)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"portfolio-api","database":false}`, rr.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("down") }

func TestHealth_DatabaseDown(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(failingPinger{}).Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAddRecord(t *testing.T) {
	ts := newTestServer(t, true)
	body := `{"date":"2025-01-20","category":"Backend","status":true,"note":"Calendar API"}`

	rr := ts.do(t, http.MethodPost, "/api/v1/progress", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/progress", body, "visitor")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/progress", body, "owner")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, ts.activityRepo.Records, 1)

	// The new record shows up on the calendar.
	rr = ts.do(t, http.MethodGet, "/api/v1/progress/calendar", "", "")
	var view calendar.MonthView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.Contributions[19])
}

func TestAddRecord_Invalid(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.do(t, http.MethodPost, "/api/v1/progress", `{"date":"2025-13-40","category":"Backend"}`, "owner")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/progress", `{"date":"2025-01-01","category":"Backend","extra":1}`, "owner")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/v1/progress", `not json`, "owner")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddRecord_ReadOnly(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodPost, "/api/v1/progress", `{"date":"2025-01-20","category":"Backend"}`, "owner")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSubmitContact(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.do(t, http.MethodPost, "/api/v1/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hi there"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, ts.contactRepo.Messages, 1)
	assert.Equal(t, ts.contactRepo.Messages[0].ID.String(), resp.ID)
}

func TestSubmitContact_Errors(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Ada","email":"nope","message":"Hi"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)

	rr = ts.do(t, http.MethodPost, "/api/v1/contact", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	ts.contactRepo.Err = errors.New("db gone")
	rr = ts.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Ada","email":"ada@example.com","message":"Hi"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db gone")

	readOnly := newTestServer(t, false)
	rr = readOnly.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Ada","email":"ada@example.com","message":"Hi"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestListMessages(t *testing.T) {
	ts := newTestServer(t, true)
	ts.contactRepo.Messages = []*contact.Message{
		{Name: "Old", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "New", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	rr := ts.do(t, http.MethodGet, "/api/v1/contact/messages", "", "visitor")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/v1/contact/messages?limit=abc", "", "owner")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/v1/contact/messages?limit=1", "", "owner")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp contact.MessageListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "New", resp.Messages[0].Name)
}

func TestMetricsRequireBasicAuth(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
