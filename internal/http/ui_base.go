package httpx

import (
	"html"
	"log/slog"
	"net/http"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T     *TemplateRenderer
	Jobs  JobApplicationsService
	Forms UploadForms
	IsDev bool // Development mode flag for enhanced error reporting
	// ScreenshotAccept is the file input accept attribute.
	ScreenshotAccept string
	// MaxScreenshotBytes caps one uploaded file. Zero means 10 MiB.
	MaxScreenshotBytes int64
	Logger             *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// layoutUser is the signed-in user shown in the header.
type layoutUser struct {
	Name  string
	Email string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if session := SessionFromContext(r.Context()); session != nil {
		data["IsAuthenticated"] = true
		data["User"] = layoutUser{Name: session.DisplayName(), Email: session.Email}
	}
	return data
}

// renderPage writes the full layout, or only the content section for htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	page, _ := data["CurrentPage"].(string)
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, status, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// Include a <title> element so htmx updates document.title on partial swaps
	title, _ := data["Title"].(string)
	if err := h.T.RenderStatus(w, status, ContentTemplateFor(page), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
	}
}

// NotFound renders the not-found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Not found", PageTitle: "Page not found", CurrentPage: PageNotFound})
	h.renderPage(w, r, http.StatusNotFound, data)
}

// SignedOut renders the page shown after logout or an expired htmx session.
// GET /auth/signed-out?redirect_uri=<path>.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Signed out", PageTitle: "Signed out", CurrentPage: PageSignedOut})
	data["RedirectURI"] = safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.renderPage(w, r, http.StatusOK, data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<pre class="template-error">` + html.EscapeString(context+": "+err.Error()) + `</pre>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
