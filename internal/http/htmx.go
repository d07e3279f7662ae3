package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// htmx request and response headers.
const (
	hxRequest        = "Hx-Request"
	hxHistoryRestore = "Hx-History-Restore-Request"
	hxRedirect       = "Hx-Redirect"
	hxTrigger        = "Hx-Trigger"
)

// toastEvent is the client event app.js turns into a toast.
const toastEvent = "showToast"

// IsHTMX reports whether the request was initiated by htmx.
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(hxRequest), "true")
}

// WantsPartial reports whether to render only the page section. History
// restores after a cache miss need the whole layout.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !strings.EqualFold(r.Header.Get(hxHistoryRestore), "true")
}

// SetHXRedirect makes htmx do a full navigation to url.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set(hxRedirect, url) }

// SetHXToast asks the page to show message. kind is "success" or "error".
func SetHXToast(w http.ResponseWriter, kind, message string) {
	b, err := json.Marshal(map[string]map[string]string{
		toastEvent: {"message": message, "type": kind},
	})
	if err != nil {
		return
	}
	w.Header().Set(hxTrigger, string(b))
}
