package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/service"
)

// ScreenshotCompleter runs the extraction model over a screenshot address.
type ScreenshotCompleter interface {
	Complete(ctx context.Context, userID, imageURL string) (*model.CompletionMessage, error)
}

var _ ScreenshotCompleter = (*service.ExtractionService)(nil)

// ExtractionHandlers serves the screenshot parsing API.
type ExtractionHandlers struct {
	Svc    ScreenshotCompleter
	Logger *slog.Logger
}

func (h *ExtractionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type parseScreenshotRequest struct {
	ImageURL string `json:"imageUrl"`
}

// ParseScreenshot returns the raw completion message for a screenshot.
// Callers decode its content field as the extracted fields.
// POST /api/parse-screenshot.
func (h *ExtractionHandlers) ParseScreenshot(w http.ResponseWriter, r *http.Request) {
	var req parseScreenshotRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Svc.Complete(r.Context(), UserIDFromContext(r.Context()), req.ImageURL)
	if err != nil {
		h.logger().WarnContext(r.Context(), "parse screenshot failed", "error", err)
		WriteAppError(w, err, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}
