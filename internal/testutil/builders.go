package testutil

import "github.com/applytrack/applytrack/internal/domain/model"

// JobRequestBuilder provides a fluent interface for building CreateJobApplicationRequest values.
type JobRequestBuilder struct {
	req model.CreateJobApplicationRequest
}

// NewJobRequest creates a builder holding a valid request.
func NewJobRequest() *JobRequestBuilder {
	return &JobRequestBuilder{
		req: model.CreateJobApplicationRequest{
			Company:       "Acme",
			Role:          "SWE",
			Status:        "offer",
			Date:          "2025-07-15",
			ScreenshotURL: "https://store.example.com/123-offer_letter.png",
		},
	}
}

// WithCompany sets the company.
func (b *JobRequestBuilder) WithCompany(v string) *JobRequestBuilder {
	b.req.Company = v
	return b
}

// WithRole sets the role.
func (b *JobRequestBuilder) WithRole(v string) *JobRequestBuilder {
	b.req.Role = v
	return b
}

// WithStatus sets the status.
func (b *JobRequestBuilder) WithStatus(v string) *JobRequestBuilder {
	b.req.Status = v
	return b
}

// WithDate sets the applied date string.
func (b *JobRequestBuilder) WithDate(v string) *JobRequestBuilder {
	b.req.Date = v
	return b
}

// WithScreenshotURL sets the screenshot address.
func (b *JobRequestBuilder) WithScreenshotURL(v string) *JobRequestBuilder {
	b.req.ScreenshotURL = v
	return b
}

// Build returns the request.
func (b *JobRequestBuilder) Build() model.CreateJobApplicationRequest {
	return b.req
}
