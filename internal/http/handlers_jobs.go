package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/service"
)

// JobApplicationsService is the record surface the API and dashboard need.
type JobApplicationsService interface {
	Create(ctx context.Context, userID string, req model.CreateJobApplicationRequest) (*model.JobApplication, error)
	List(ctx context.Context, opts model.JobApplicationListOptions) ([]model.JobApplication, error)
}

var _ JobApplicationsService = (*service.JobApplicationService)(nil)

// JobHandlers serves the job application JSON API.
type JobHandlers struct {
	Svc    JobApplicationsService
	Logger *slog.Logger
}

func (h *JobHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Create stores a job application for the signed-in user.
// POST /api/job/create.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errUnauthorized})
		return
	}

	var req model.CreateJobApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	rec, err := h.Svc.Create(r.Context(), userID, req)
	if err != nil {
		h.logger().InfoContext(r.Context(), "create job application rejected", "user_id", userID, "error", err)
		WriteAppError(w, err, "Failed to save job")
		return
	}
	WriteJSON(w, http.StatusCreated, rec)
}

// listResponse wraps list results so the body can grow without breaking clients.
type listResponse struct {
	Jobs []model.JobApplication `json:"jobs"`
}

// List returns the signed-in user's applications.
// GET /api/jobs?status=<status>&sort=<date_asc|date_desc>.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthorized", Err: errUnauthorized})
		return
	}

	q := r.URL.Query()
	jobs, err := h.Svc.List(r.Context(), model.ListOptionsFromQuery(userID, q.Get("status"), q.Get("sort")))
	if err != nil {
		WriteAppError(w, err, "Failed to load applications")
		return
	}
	if jobs == nil {
		jobs = []model.JobApplication{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Jobs: jobs})
}
