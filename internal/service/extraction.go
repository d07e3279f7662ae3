package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/applytrack/applytrack/internal/domain/model"
	apperrors "github.com/applytrack/applytrack/internal/errors"
	"github.com/applytrack/applytrack/internal/extract"
	"github.com/applytrack/applytrack/internal/observability/metrics"
	"github.com/applytrack/applytrack/internal/observability/statsd"
	"github.com/applytrack/applytrack/internal/ports"
)

// Client-facing extraction messages.
const (
	msgImageURLRequired = "Image URL is required"
	msgNoCompletion     = "No response from OpenAI"
	msgInternal         = "Internal server error"
	msgRateLimited      = "rate_limited"
)

// ExtractionServiceOptions groups dependencies for ExtractionService.
type ExtractionServiceOptions struct {
	Client  ports.CompletionClient
	Limiter ports.RateLimiter // optional; nil disables rate limiting
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// ExtractionService reads job fields from screenshots through the completion client.
// Concurrent requests for the same image share one upstream call.
type ExtractionService struct {
	client  ports.CompletionClient
	limiter ports.RateLimiter
	logger  *slog.Logger
	metrics statsd.Sink
	group   singleflight.Group
}

// NewExtractionService panics when Client is nil.
func NewExtractionService(opts ExtractionServiceOptions) *ExtractionService {
	if opts.Client == nil {
		panic("extraction service: client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionService{
		client:  opts.Client,
		limiter: opts.Limiter,
		logger:  logger.With("component", "extraction_service"),
		metrics: opts.Metrics,
	}
}

// Complete returns the raw completion message for imageURL. userID scopes the
// rate limit and may be empty for anonymous callers, who are not limited.
func (s *ExtractionService) Complete(ctx context.Context, userID, imageURL string) (*model.CompletionMessage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, apperrors.Validation(msgImageURLRequired)
	}
	if err := s.admit(ctx, userID); err != nil {
		return nil, err
	}

	start := time.Now()
	msg, err := s.completeShared(ctx, imageURL)
	metrics.Emit(s.metrics, metrics.Event{
		Operation: "extract",
		Result:    metrics.ResultFor(err),
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		return nil, s.mapError(ctx, imageURL, err)
	}
	return msg, nil
}

// ExtractFields runs Complete and parses the message content. Schema issues are
// logged only.
func (s *ExtractionService) ExtractFields(ctx context.Context, userID, imageURL string) (model.ExtractedFields, error) {
	msg, err := s.Complete(ctx, userID, imageURL)
	if err != nil {
		return model.ExtractedFields{}, err
	}
	res, err := extract.ParseWithIssues(msg.Content)
	if err != nil {
		s.logger.InfoContext(ctx, "completion not parseable", "error", err)
		return model.ExtractedFields{}, err
	}
	if len(res.Issues) > 0 {
		s.logger.InfoContext(ctx, "completion schema issues", "issues", res.Issues)
	}
	return res.Fields, nil
}

func (s *ExtractionService) admit(ctx context.Context, userID string) error {
	if s.limiter == nil || userID == "" {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, "extract:"+userID)
	if err != nil {
		// Limiter outages must not block extraction.
		s.logger.WarnContext(ctx, "rate limiter unavailable", "error", err)
		return nil
	}
	if !ok {
		metrics.Emit(s.metrics, metrics.Event{Operation: "extract", Result: metrics.ResultRateLimited})
		return apperrors.New(apperrors.ErrCodeRateLimited, msgRateLimited)
	}
	return nil
}

// completeShared collapses concurrent calls for the same URL. The shared call
// is detached from any single caller's cancellation; each caller still stops
// waiting when its own context ends.
func (s *ExtractionService) completeShared(ctx context.Context, imageURL string) (*model.CompletionMessage, error) {
	ch := s.group.DoChan(imageURL, func() (any, error) {
		return s.client.Extract(context.WithoutCancel(ctx), imageURL)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		msg, _ := res.Val.(*model.CompletionMessage)
		if msg == nil {
			return nil, ports.ErrNoCompletion
		}
		return msg, nil
	}
}

func (s *ExtractionService) mapError(ctx context.Context, imageURL string, err error) error {
	if ctxErr := apperrors.FromContext(err); apperrors.GetCode(ctxErr) != "" {
		return ctxErr
	}
	switch {
	case errors.Is(err, ports.ErrInvalidImageURL):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, msgImageURLRequired)
	case errors.Is(err, ports.ErrNoCompletion):
		s.logger.WarnContext(ctx, "extraction returned no completion", "image_url", imageURL)
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, msgNoCompletion)
	default:
		s.logger.ErrorContext(ctx, "extraction failed", "image_url", imageURL, "error", err)
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, msgInternal)
	}
}
