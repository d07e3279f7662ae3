package httpx

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/service/upload"
)

// UploadForms hands out the upload form state for a browser session.
type UploadForms interface {
	Get(sessionID, userID string) (*upload.Orchestrator, error)
	Delete(sessionID string)
}

var _ UploadForms = (*upload.Registry)(nil)

// Notices shown above the upload form. Keys travel in the notice query
// parameter after a non-htmx redirect.
//
//nolint:gochecknoglobals // static read-only lookup
var uploadNotices = map[string]string{
	"busy":        "Please wait for the current step to finish.",
	"no_file":     "Choose a screenshot to upload.",
	"too_large":   "Screenshots must be 10 MB or smaller.",
	"bad_type":    "Only PNG, JPEG, GIF or WebP images can be uploaded.",
	"superseded":  "A newer upload replaced that one.",
	"parse_unavl": "Upload a screenshot before parsing, or edit the address to parse again.",
	"failed":      "Something went wrong. Please try again.",
}

//nolint:gochecknoglobals // static read-only lookup
var allowedScreenshotTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// uploadView is the data behind the upload panel.
type uploadView struct {
	upload.Snapshot
	Notice   string
	Busy     bool
	CanParse bool
	Accept   string
}

// UploadPage renders the upload form.
// GET /upload.
func (h *UIHandlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}
	h.renderUpload(w, r, orch.Snapshot(), uploadNotices[r.URL.Query().Get("notice")])
}

// UploadFile stores the chosen screenshot and runs auto-fill.
// POST /upload/file (multipart, field "screenshot").
func (h *UIHandlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}

	file, err := h.readScreenshot(r)
	if err != nil {
		h.respondUpload(w, r, orch.Snapshot(), err)
		return
	}
	if c, ok := file.Body.(io.Closer); ok {
		defer c.Close()
	}

	snap, err := orch.Upload(r.Context(), file)
	h.respondUpload(w, r, snap, err)
}

// UploadParse saves the posted edits and runs auto-fill on demand.
// POST /upload/parse.
func (h *UIHandlers) UploadParse(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}
	if snap, err := orch.SetFields(formInput(r)); err != nil {
		h.respondUpload(w, r, snap, err)
		return
	}
	snap, err := orch.ParseWithAI(r.Context())
	h.respondUpload(w, r, snap, err)
}

// UploadFields saves edits without submitting.
// POST /upload/fields.
func (h *UIHandlers) UploadFields(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}
	snap, err := orch.SetFields(formInput(r))
	h.respondUpload(w, r, snap, err)
}

// UploadSubmit saves the posted edits and creates the record.
// POST /upload/submit.
func (h *UIHandlers) UploadSubmit(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}
	if snap, err := orch.SetFields(formInput(r)); err != nil {
		h.respondUpload(w, r, snap, err)
		return
	}
	snap, err := orch.Submit(r.Context())
	if err == nil && IsHTMX(r) {
		SetHXToast(w, "success", snap.Message)
	}
	h.respondUpload(w, r, snap, err)
}

// UploadReset clears the form.
// POST /upload/reset.
func (h *UIHandlers) UploadReset(w http.ResponseWriter, r *http.Request) {
	orch, ok := h.form(w, r)
	if !ok {
		return
	}
	h.respondUpload(w, r, orch.Reset(), nil)
}

// form resolves the caller's orchestrator. Routes are wrapped in
// RequireAuthBrowser, so a missing session is a wiring error.
func (h *UIHandlers) form(w http.ResponseWriter, r *http.Request) (*upload.Orchestrator, bool) {
	session := SessionFromContext(r.Context())
	if session == nil || h.Forms == nil {
		redirectToLogin(w, r)
		return nil, false
	}
	orch, err := h.Forms.Get(session.ID, session.UserID)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "upload form unavailable", "error", err)
		http.Error(w, "upload is unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return orch, true
}

var (
	errScreenshotTooLarge = errors.New("screenshot too large")
	errScreenshotType     = errors.New("unsupported screenshot type")
)

// readScreenshot pulls the file part, enforces the size cap and sniffs the
// content type from its bytes.
func (h *UIHandlers) readScreenshot(r *http.Request) (upload.FileUpload, error) {
	limit := screenshotLimit(h.MaxScreenshotBytes)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return upload.FileUpload{}, errScreenshotTooLarge
		}
		return upload.FileUpload{}, upload.ErrNoFile
	}
	f, header, err := r.FormFile("screenshot")
	if err != nil {
		return upload.FileUpload{}, upload.ErrNoFile
	}
	if header.Size > limit {
		f.Close()
		return upload.FileUpload{}, errScreenshotTooLarge
	}

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return upload.FileUpload{}, errScreenshotType
	}
	if !mimetype.EqualsAny(mtype.String(), allowedScreenshotTypes...) {
		f.Close()
		return upload.FileUpload{}, errScreenshotType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return upload.FileUpload{}, err
	}
	return upload.FileUpload{
		Filename:    header.Filename,
		ContentType: mtype.String(),
		Size:        header.Size,
		Body:        f,
	}, nil
}

func formInput(r *http.Request) upload.FormInput {
	return upload.FormInput{
		Company:       strings.TrimSpace(r.FormValue("company")),
		Role:          strings.TrimSpace(r.FormValue("role")),
		Status:        r.FormValue("status"),
		Date:          strings.TrimSpace(r.FormValue("date")),
		ScreenshotURL: r.FormValue("screenshotUrl"),
	}
}

// noticeKey maps an orchestrator or input error to a notice key. Errors the
// snapshot already describes map to "".
func noticeKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, upload.ErrBusy):
		return "busy"
	case errors.Is(err, upload.ErrNoFile):
		return "no_file"
	case errors.Is(err, errScreenshotTooLarge):
		return "too_large"
	case errors.Is(err, errScreenshotType):
		return "bad_type"
	case errors.Is(err, upload.ErrSuperseded):
		return "superseded"
	case errors.Is(err, upload.ErrParseUnavailable):
		return "parse_unavl"
	default:
		return ""
	}
}

// respondUpload re-renders the panel for htmx, otherwise redirects back to
// the page so a refresh never re-posts.
func (h *UIHandlers) respondUpload(w http.ResponseWriter, r *http.Request, snap upload.Snapshot, err error) {
	key := noticeKey(err)
	if err != nil && key == "" && snap.Message == "" {
		key = "failed"
	}
	if err != nil && key != "" {
		h.logger().InfoContext(r.Context(), "upload step refused", "notice", key, "error", err)
	}

	if IsHTMX(r) {
		h.renderUpload(w, r, snap, uploadNotices[key])
		return
	}
	target := "/upload"
	if key != "" {
		target += "?notice=" + url.QueryEscape(key)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *UIHandlers) renderUpload(w http.ResponseWriter, r *http.Request, snap upload.Snapshot, notice string) {
	view := uploadView{
		Snapshot: snap,
		Notice:   notice,
		Busy:     snap.State.Busy(),
		CanParse: snap.CanParse(),
		Accept:   h.ScreenshotAccept,
	}
	if view.Accept == "" {
		view.Accept = strings.Join(allowedScreenshotTypes, ",")
	}

	data := basePageData(r, PageMeta{Title: "Add application", PageTitle: "Add an application", CurrentPage: PageUpload})
	data["Upload"] = view
	data["Statuses"] = model.Statuses

	if IsHTMX(r) && r.Method == http.MethodPost {
		if err := h.T.Render(w, "upload-panel", data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "upload panel render")
		}
		return
	}
	h.renderPage(w, r, http.StatusOK, data)
}
