package ports

import (
	"context"
	"errors"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// Errors a CompletionClient reports.
var (
	ErrInvalidImageURL   = errors.New("image URL is required")
	ErrNoCompletion      = errors.New("no completion returned")
	ErrExtractionService = errors.New("extraction service error")
)

// CompletionClient asks the extraction service to read a screenshot and returns
// the first completion message verbatim.
type CompletionClient interface {
	Extract(ctx context.Context, imageURL string) (*model.CompletionMessage, error)
}

// RateLimiter admits or rejects one call for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
