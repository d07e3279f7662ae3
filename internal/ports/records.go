package ports

import (
	"context"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// JobApplicationStore persists and queries job application records keyed by owning user.
type JobApplicationStore interface {
	Create(ctx context.Context, in model.NewJobApplication) (*model.JobApplication, error)
	List(ctx context.Context, opts model.JobApplicationListOptions) ([]model.JobApplication, error)
}
