package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/applytrack/applytrack/internal/domain/model"
	apperrors "github.com/applytrack/applytrack/internal/errors"
	"github.com/applytrack/applytrack/internal/observability/metrics"
	"github.com/applytrack/applytrack/internal/observability/statsd"
	"github.com/applytrack/applytrack/internal/ports"
	"github.com/applytrack/applytrack/internal/validation"
)

// Messages returned to clients. Store causes are logged, never returned.
const (
	msgSaveFailed = "Failed to save job"
	msgListFailed = "Failed to load applications"
)

// JobApplicationServiceOptions groups dependencies for JobApplicationService.
type JobApplicationServiceOptions struct {
	Store ports.JobApplicationStore
	// ScreenshotHost, when set, restricts screenshot URLs to its registrable domain.
	ScreenshotHost string
	Logger         *slog.Logger
	Metrics        statsd.Sink
}

// JobApplicationService validates and persists job applications for one user at a time.
type JobApplicationService struct {
	store          ports.JobApplicationStore
	screenshotHost string
	logger         *slog.Logger
	metrics        statsd.Sink
}

// NewJobApplicationService panics when Store is nil.
func NewJobApplicationService(opts JobApplicationServiceOptions) *JobApplicationService {
	if opts.Store == nil {
		panic("job application service: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobApplicationService{
		store:          opts.Store,
		screenshotHost: opts.ScreenshotHost,
		logger:         logger.With("component", "job_application_service"),
		metrics:        opts.Metrics,
	}
}

// Create re-validates req and stores it for userID. Validation failures carry
// ErrCodeValidation with the per-field flags in the cause; store failures
// carry ErrCodeInternal with a generic message.
func (s *JobApplicationService) Create(ctx context.Context, userID string, req model.CreateJobApplicationRequest) (*model.JobApplication, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	in, err := req.Normalize(userID)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return nil, apperrors.Wrap(verr, apperrors.ErrCodeValidation, verr.Message)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	if !validation.SameRegistrableDomain(in.ScreenshotURL, s.screenshotHost) {
		fields := model.FieldErrors{Screenshot: true}
		msg := "screenshot URL must point at the screenshot storage host"
		return nil, apperrors.Wrap(&model.ValidationError{Fields: fields, Message: msg}, apperrors.ErrCodeValidation, msg)
	}

	start := time.Now()
	rec, err := s.store.Create(ctx, in)
	metrics.Emit(s.metrics, metrics.Event{
		Operation: "record.create",
		Result:    metrics.ResultFor(err),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "create job application failed", "user_id", userID, "error", err)
		if ctxErr := apperrors.FromContext(err); apperrors.GetCode(ctxErr) != "" {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, msgSaveFailed)
	}
	s.logger.InfoContext(ctx, "job application created", "user_id", userID, "id", rec.ID, "status", rec.Status)
	return rec, nil
}

// List returns the records matching opts. opts.UserID must be set.
func (s *JobApplicationService) List(ctx context.Context, opts model.JobApplicationListOptions) ([]model.JobApplication, error) {
	if opts.UserID == "" {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	start := time.Now()
	items, err := s.store.List(ctx, opts)
	metrics.Emit(s.metrics, metrics.Event{
		Operation: "record.list",
		Result:    metrics.ResultFor(err),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "list job applications failed", "user_id", opts.UserID, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, msgListFailed)
	}
	return items, nil
}
