package httpx

import (
	"net/http"
	"net/url"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// sortOption is one entry of the dashboard sort select.
type sortOption struct {
	Value model.SortOrder
	Label string
}

//nolint:gochecknoglobals // static read-only lookup
var dashboardSortOptions = []sortOption{
	{Value: model.SortDateDesc, Label: "Newest first"},
	{Value: model.SortDateAsc, Label: "Oldest first"},
}

// Index sends visitors to the dashboard.
// GET /{$}.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard lists the signed-in user's applications, filtered by status and
// sorted by applied date. Anonymous visitors get a sign-in prompt.
// GET /dashboard?status=<status>&sort=<date_asc|date_desc>.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		data := basePageData(r, PageMeta{Title: "Sign in", PageTitle: "Sign in", CurrentPage: PageSignIn})
		data["LoginURL"] = "/auth/login?redirect_uri=" + url.QueryEscape(safeRedirectPath(r.URL.RequestURI()))
		h.renderPage(w, r, http.StatusOK, data)
		return
	}

	q := r.URL.Query()
	opts := model.ListOptionsFromQuery(session.UserID, q.Get("status"), q.Get("sort"))
	data := basePageData(r, PageMeta{Title: "Dashboard", PageTitle: "Your applications", CurrentPage: PageDashboard})
	data["Statuses"] = model.Statuses
	data["SortOptions"] = dashboardSortOptions
	data["SelectedSort"] = opts.Sort
	data["SelectedStatus"] = model.Status("")
	if opts.Status != nil {
		data["SelectedStatus"] = *opts.Status
	}

	jobs, err := h.Jobs.List(r.Context(), opts)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "dashboard list failed", "user_id", session.UserID, "error", err)
		data["Error"] = true
		data["ErrorMessage"] = "Could not load your applications. Please try again."
		h.renderPage(w, r, http.StatusOK, data)
		return
	}
	data["Jobs"] = jobs
	h.renderPage(w, r, http.StatusOK, data)
}
