package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/applytrack/applytrack"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Jobs       JobApplicationsService
	Extraction ScreenshotCompleter
	// Forms holds per-session upload state for the browser flow.
	Forms        UploadForms
	CookieDomain string
	// Optional: template and static filesystems. When nil they come from disk
	// in dev mode and from the embedded assets otherwise.
	TemplateFS fs.FS
	StaticFS   fs.FS
	// Optional: serves locally stored screenshots under /files/.
	Files           http.Handler
	ReadinessChecks map[string]ReadinessCheck
	// ScreenshotAccept overrides the upload input accept attribute.
	ScreenshotAccept string
	// MaxScreenshotBytes caps one uploaded screenshot. Zero means 10 MiB.
	MaxScreenshotBytes int64
	IsDev              bool         // Development mode flag for hot reloading, etc.
	Logger             *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP router. It fails when the templates cannot be parsed.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Jobs == nil || services.Extraction == nil {
		return nil, errors.New("router requires auth, jobs and extraction services")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssetFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	forms := services.Forms
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
		OnLogout: func(sessionID string) {
			if forms != nil {
				forms.Delete(sessionID)
			}
		},
	}
	ui := &UIHandlers{
		T:                  tr,
		Jobs:               services.Jobs,
		Forms:              forms,
		IsDev:              services.IsDev,
		ScreenshotAccept:   services.ScreenshotAccept,
		MaxScreenshotBytes: services.MaxScreenshotBytes,
		Logger:             logger,
	}
	cfg := routeConfig{
		Auth:         services.Auth,
		CookieDomain: services.CookieDomain,
		UploadLimit:  screenshotLimit(services.MaxScreenshotBytes) + multipartOverheadBytes,
	}

	registerAPIRoutes(mux, cfg, &JobHandlers{Svc: services.Jobs, Logger: logger},
		&ExtractionHandlers{Svc: services.Extraction, Logger: logger})
	registerAuthRoutes(mux, authHandlers, ui, cfg)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.ReadinessChecks))

	mux.Handle("GET /static/", staticWithCacheHeaders(services.IsDev,
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	if services.Files != nil {
		mux.Handle("GET /files/", http.StripPrefix("/files/", services.Files))
	}

	registerUIRoutes(mux, ui, cfg)
	return mux, nil
}

// resolveAssetFS picks template and static filesystems.
// Dev mode: serve from disk for hot reloading.
// Prod mode: serve from the embedded FS.
func resolveAssetFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(applytrack.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, err
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(applytrack.StaticFS, StaticPathFromRoot); err != nil {
			return nil, nil, err
		}
	}
	return templateFS, staticFS, nil
}

// staticWithCacheHeaders lets browsers cache assets in production and forces
// revalidation in dev mode.
func staticWithCacheHeaders(isDev bool, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}

// routeConfig holds configuration shared by route registration.
type routeConfig struct {
	Auth         AuthServiceInterface
	CookieDomain string
	UploadLimit  int64
}

func (cfg routeConfig) csrf() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// browserWrap resolves the optional session and issues the CSRF token, for
// pages that render differently for anonymous visitors.
func (cfg routeConfig) browserWrap() func(http.Handler) http.Handler {
	optional, csrf := OptionalAuth(cfg.Auth), cfg.csrf()
	return func(h http.Handler) http.Handler {
		return optional(csrf(h))
	}
}

// uploadWrap caps the body before CSRF validation parses it, then requires a
// signed-in browser session.
func (cfg routeConfig) uploadWrap() func(http.Handler) http.Handler {
	limit, auth, csrf := LimitBody(cfg.UploadLimit), RequireAuthBrowser(cfg.Auth), cfg.csrf()
	return func(h http.Handler) http.Handler {
		return limit(auth(csrf(h)))
	}
}

func registerAPIRoutes(mux *http.ServeMux, cfg routeConfig, jobs *JobHandlers, extraction *ExtractionHandlers) {
	requireAuth := RequireAuth(cfg.Auth)
	mux.Handle("POST /api/job/create", requireAuth(http.HandlerFunc(jobs.Create)))
	mux.Handle("GET /api/jobs", requireAuth(http.HandlerFunc(jobs.List)))
	mux.Handle("POST /api/parse-screenshot", OptionalAuth(cfg.Auth)(http.HandlerFunc(extraction.ParseScreenshot)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, ui *UIHandlers, cfg routeConfig) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.Handle("POST /auth/logout", cfg.csrf()(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("GET /auth/signed-out", cfg.browserWrap()(http.HandlerFunc(ui.SignedOut)))
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg routeConfig) {
	browser := cfg.browserWrap()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.Handle("GET /dashboard", browser(http.HandlerFunc(h.Dashboard)))

	wrap := cfg.uploadWrap()
	mux.Handle("GET /upload", wrap(http.HandlerFunc(h.UploadPage)))
	mux.Handle("POST /upload/file", wrap(http.HandlerFunc(h.UploadFile)))
	mux.Handle("POST /upload/parse", wrap(http.HandlerFunc(h.UploadParse)))
	mux.Handle("POST /upload/fields", wrap(http.HandlerFunc(h.UploadFields)))
	mux.Handle("POST /upload/submit", wrap(http.HandlerFunc(h.UploadSubmit)))
	mux.Handle("POST /upload/reset", wrap(http.HandlerFunc(h.UploadReset)))

	// Everything else renders the not-found page.
	mux.Handle("GET /", browser(http.HandlerFunc(h.NotFound)))
}
