// Package upload sequences the screenshot upload, auto-fill and submit flow
// for one signed-in user's form.
package upload

import (
	"errors"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// State is a step of the upload flow.
type State string

const (
	StateIdle         State = "idle"
	StateUploading    State = "uploading"
	StateUploaded     State = "uploaded"
	StateExtracting   State = "extracting"
	StateReady        State = "ready"
	StateSubmitting   State = "submitting"
	StateDone         State = "done"
	StateSubmitFailed State = "submit_failed"
	StateUploadFailed State = "upload_failed"
)

// Busy reports whether an external call is in flight.
func (s State) Busy() bool {
	return s == StateUploading || s == StateExtracting || s == StateSubmitting
}

var (
	// ErrSuperseded means a newer upload or a reset replaced the attempt; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer attempt")
	// ErrParseUnavailable means manual extraction needs an address and no applied auto-fill.
	ErrParseUnavailable = errors.New("parse is unavailable")
	// ErrBusy means the requested step conflicts with one in flight.
	ErrBusy = errors.New("another step is in progress")
	// ErrNoFile means the upload carried no content.
	ErrNoFile = errors.New("no file selected")
)

// FormState is the editable form plus its screenshot address and error flags.
type FormState struct {
	Company       string
	Role          string
	Status        string
	Date          string
	ScreenshotURL string
	Errors        model.FieldErrors
}

func (f FormState) request() model.CreateJobApplicationRequest {
	return model.CreateJobApplicationRequest{
		Company:       f.Company,
		Role:          f.Role,
		Status:        f.Status,
		Date:          f.Date,
		ScreenshotURL: f.ScreenshotURL,
	}
}

// FormInput is one round of user edits. Every field is replaced.
type FormInput struct {
	Company       string
	Role          string
	Status        string
	Date          string
	ScreenshotURL string
}

// Snapshot is a read-only copy of an orchestrator.
type Snapshot struct {
	State      State
	Generation uint64
	Form       FormState
	Extracted  *model.ExtractedFields
	Autofilled bool
	// Message is the latest user-facing notice or error, empty when none.
	Message string
	// Created is set after a successful submit.
	Created *model.JobApplication
}

// CanParse reports whether a manual extraction may start.
func (s Snapshot) CanParse() bool {
	return !s.State.Busy() && s.Form.ScreenshotURL != "" && !s.Autofilled
}

// Validate applies the submit rules to f and returns the failing fields.
func Validate(f FormState) model.FieldErrors {
	req := f.request()
	var verr *model.ValidationError
	if errors.As(req.Validate(), &verr) {
		return verr.Fields
	}
	return model.FieldErrors{}
}
