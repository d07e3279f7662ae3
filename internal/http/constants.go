package httpx

// Page identifiers used in templates and navigation.
const (
	PageDashboard = "dashboard"
	PageUpload    = "upload"
	PageSignIn    = "signin"
	PageSignedOut = "signed-out"
	PageNotFound  = "not-found"
)

// Asset paths used for loading templates and static files in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
)

// Upload limits for screenshots.
const (
	maxScreenshotBytes = 10 << 20
	// multipart framing and the text fields on top of the file itself
	multipartOverheadBytes = 64 << 10
)

func screenshotLimit(n int64) int64 {
	if n <= 0 {
		return maxScreenshotBytes
	}
	return n
}

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageDashboard: "dashboard-content",
	PageUpload:    "upload-content",
	PageSignIn:    "signin-content",
	PageSignedOut: "signed-out-content",
	PageNotFound:  "not-found-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
