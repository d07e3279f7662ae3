package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/mocks"
	"github.com/applytrack/applytrack/internal/service"
)

func newDashboardHandlers(t *testing.T) (*UIHandlers, *mocks.MockJobApplicationStore) {
	t.Helper()
	store := mocks.NewMockJobApplicationStore(gomock.NewController(t))
	svc := service.NewJobApplicationService(service.JobApplicationServiceOptions{Store: store})
	return &UIHandlers{T: requireTemplateRenderer(t), Jobs: svc}, store
}

func TestUIHandlers_Dashboard_AnonymousSeesSignIn(t *testing.T) {
	h, _ := newDashboardHandlers(t)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard?status=offer", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/auth/login?redirect_uri=%2Fdashboard%3Fstatus%3Doffer")
	assert.NotContains(t, body, "<table")
}

func TestUIHandlers_Dashboard_FiltersAndSorts(t *testing.T) {
	h, store := newDashboardHandlers(t)
	applied := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.JobApplicationListOptions) ([]model.JobApplication, error) {
			assert.Equal(t, testUserID, opts.UserID)
			require.NotNil(t, opts.Status)
			assert.Equal(t, model.StatusInterview, *opts.Status)
			assert.Equal(t, model.SortDateAsc, opts.Sort)
			return []model.JobApplication{
				{ID: "1", CompanyName: "Acme", Role: "SWE", Status: model.StatusInterview, DateApplied: &applied,
					ScreenshotURL: "https://store.example.com/1-acme.png"},
				{ID: "2", CompanyName: "Globex", Role: "SRE", Status: model.StatusInterview},
			}, nil
		})

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard?status=interview&sort=date_asc", nil), testSession(testUserID))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, containsAll(body,
		"<html",
		"Acme", "Globex",
		"2025-06-01",
		"badge-warning",
		`value="interview" selected`,
		`value="date_asc" selected`,
		"https://store.example.com/1-acme.png",
		"Test User",
	), body)
}

func TestUIHandlers_Dashboard_HTMXRendersContentOnly(t *testing.T) {
	h, store := newDashboardHandlers(t)
	store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testSession(testUserID))
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "No applications yet.")
	assert.Contains(t, body, "<title>Dashboard</title>")
}

func TestUIHandlers_Dashboard_ListFailure(t *testing.T) {
	h, store := newDashboardHandlers(t)
	store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testSession(testUserID))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load your applications. Please try again.")
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestUIHandlers_NotFound(t *testing.T) {
	h := &UIHandlers{T: requireTemplateRenderer(t)}

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}
