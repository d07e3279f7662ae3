package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/applytrack/applytrack/internal/domain/model"
	apperrors "github.com/applytrack/applytrack/internal/errors"
	"github.com/applytrack/applytrack/internal/observability/metrics"
	"github.com/applytrack/applytrack/internal/observability/statsd"
	"github.com/applytrack/applytrack/internal/ports"
)

// User-facing notices.
const (
	msgUploadFailed = "Screenshot upload failed. Please try again."
	msgAutofilled   = "Details filled in from the screenshot. Check them before saving."
	msgManual       = "Could not read details from the screenshot. Please fill them in."
	msgSaved        = "Application saved."
	msgSaveFallback = "Failed to save job"
	msgUnauthorized = "Please sign in again."
)

// FieldExtractor reads form fields from a screenshot address.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, userID, imageURL string) (model.ExtractedFields, error)
}

// RecordCreator persists a submitted form for a user.
type RecordCreator interface {
	Create(ctx context.Context, userID string, req model.CreateJobApplicationRequest) (*model.JobApplication, error)
}

// FileUpload is a screenshot chosen by the user.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Deps are the collaborators an Orchestrator calls.
type Deps struct {
	Objects   ports.ObjectStore
	Extractor FieldExtractor
	Records   RecordCreator
}

// Options configures an Orchestrator.
type Options struct {
	Deps    Deps
	UserID  string
	Logger  *slog.Logger
	Metrics statsd.Sink
	Clock   func() time.Time
}

// Orchestrator drives one form through upload, extraction and submit.
// Methods are safe for concurrent use. External calls run without holding the
// lock; each captures the generation at its start and its result is discarded
// when the generation has moved on.
type Orchestrator struct {
	deps    Deps
	userID  string
	logger  *slog.Logger
	metrics statsd.Sink
	clock   func() time.Time

	mu         sync.Mutex
	state      State
	gen        uint64
	form       FormState
	extracted  *model.ExtractedFields
	autofilled bool
	message    string
	created    *model.JobApplication
}

// New creates an Orchestrator in StateIdle. Objects, Extractor and Records are required.
func New(opts Options) (*Orchestrator, error) {
	if opts.Deps.Objects == nil || opts.Deps.Extractor == nil || opts.Deps.Records == nil {
		return nil, errors.New("upload orchestrator: objects, extractor and records are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		deps:    opts.Deps,
		userID:  opts.UserID,
		logger:  logger.With("component", "upload_orchestrator", "user_id", opts.UserID),
		metrics: opts.Metrics,
		clock:   clock,
		state:   StateIdle,
	}, nil
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{
		State:      o.state,
		Generation: o.gen,
		Form:       o.form,
		Autofilled: o.autofilled,
		Message:    o.message,
		Created:    o.created,
	}
	if o.extracted != nil {
		e := *o.extracted
		s.Extracted = &e
	}
	return s
}

// Upload stores f and, on success, runs extraction on the new address. A new
// upload supersedes any upload or extraction still in flight. It is refused
// while a submit is running.
func (o *Orchestrator) Upload(ctx context.Context, f FileUpload) (Snapshot, error) {
	if f.Body == nil {
		return o.Snapshot(), ErrNoFile
	}

	o.mu.Lock()
	if o.state == StateSubmitting {
		defer o.mu.Unlock()
		return o.snapshotLocked(), ErrBusy
	}
	o.gen++
	gen := o.gen
	o.state = StateUploading
	o.message = ""
	o.created = nil
	key := model.ScreenshotKey(o.clock(), f.Filename)
	o.mu.Unlock()

	start := time.Now()
	err := o.deps.Objects.Put(ctx, ports.PutObjectInput{
		Key:         key,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
	})
	var address string
	if err == nil {
		address = o.deps.Objects.PublicURL(key)
	}

	o.mu.Lock()
	if gen != o.gen {
		defer o.mu.Unlock()
		o.emit("upload", metrics.ResultStale, time.Since(start), nil)
		return o.snapshotLocked(), ErrSuperseded
	}
	o.emit("upload", metrics.ResultFor(err), time.Since(start), err)
	if err != nil {
		o.logger.WarnContext(ctx, "screenshot upload failed", "key", key, "error", err)
		o.state = StateUploadFailed
		o.message = msgUploadFailed
		o.mu.Unlock()
		return o.Snapshot(), fmt.Errorf("upload %s: %w", key, err)
	}
	o.logger.InfoContext(ctx, "screenshot uploaded", "key", key)
	o.form.ScreenshotURL = address
	o.form.Errors.Screenshot = false
	o.extracted = nil
	o.autofilled = false
	o.state = StateExtracting
	o.mu.Unlock()

	return o.runExtraction(ctx, gen, address)
}

// ParseWithAI runs extraction on demand for the current address.
func (o *Orchestrator) ParseWithAI(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	if !o.snapshotLocked().CanParse() {
		defer o.mu.Unlock()
		return o.snapshotLocked(), ErrParseUnavailable
	}
	gen := o.gen
	address := o.form.ScreenshotURL
	o.state = StateExtracting
	o.message = ""
	o.mu.Unlock()
	return o.runExtraction(ctx, gen, address)
}

// runExtraction reads address and moves to Ready. The caller has already
// moved to Extracting under the lock that captured gen. Extraction failures
// leave the form untouched.
func (o *Orchestrator) runExtraction(ctx context.Context, gen uint64, address string) (Snapshot, error) {
	start := time.Now()
	fields, err := o.deps.Extractor.ExtractFields(ctx, o.userID, address)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		o.emit("autofill", metrics.ResultStale, time.Since(start), nil)
		return o.snapshotLocked(), ErrSuperseded
	}
	o.emit("autofill", metrics.ResultFor(err), time.Since(start), err)
	o.state = StateReady
	if err != nil {
		o.logger.InfoContext(ctx, "auto-fill unavailable", "error", err)
		o.message = msgManual
		return o.snapshotLocked(), nil
	}

	o.extracted = &fields
	o.autofilled = true
	o.form.Company = fields.Company
	o.form.Role = fields.Role
	o.form.Status = fields.Status
	o.form.Date = fields.Date
	o.form.Errors = model.FieldErrors{}
	o.message = msgAutofilled
	return o.snapshotLocked(), nil
}

// SetFields applies user edits. Edits made while an upload or extraction is
// in flight are kept but a later auto-fill overwrites them. Changing the
// address supersedes any upload or extraction still in flight.
func (o *Orchestrator) SetFields(in FormInput) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return o.snapshotLocked(), ErrBusy
	}

	screenshot := strings.TrimSpace(in.ScreenshotURL)
	if screenshot != o.form.ScreenshotURL {
		o.gen++
		o.extracted = nil
		o.autofilled = false
		if o.state.Busy() {
			o.state = StateReady
		}
	}
	o.form = FormState{
		Company:       in.Company,
		Role:          in.Role,
		Status:        in.Status,
		Date:          in.Date,
		ScreenshotURL: screenshot,
	}
	if !o.state.Busy() {
		o.state = StateReady
		o.message = ""
		o.created = nil
	}
	return o.snapshotLocked(), nil
}

// Submit validates the form and creates the record. Validation failures keep
// the state at Ready with error flags set and return a validation AppError.
func (o *Orchestrator) Submit(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	if o.state.Busy() {
		defer o.mu.Unlock()
		return o.snapshotLocked(), ErrBusy
	}
	req := o.form.request()
	if err := req.Validate(); err != nil {
		defer o.mu.Unlock()
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			o.form.Errors = verr.Fields
		}
		o.state = StateReady
		o.message = err.Error()
		return o.snapshotLocked(), apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	o.form.Errors = model.FieldErrors{}
	o.state = StateSubmitting
	o.message = ""
	gen := o.gen
	o.mu.Unlock()

	rec, err := o.deps.Records.Create(ctx, o.userID, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return o.snapshotLocked(), ErrSuperseded
	}
	if err != nil {
		o.state = StateSubmitFailed
		o.message = submitMessage(err)
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			o.form.Errors = verr.Fields
		}
		o.logger.WarnContext(ctx, "submit failed", "error", err)
		return o.snapshotLocked(), err
	}

	o.gen++
	o.state = StateDone
	o.form = FormState{}
	o.extracted = nil
	o.autofilled = false
	o.created = rec
	o.message = msgSaved
	return o.snapshotLocked(), nil
}

// Reset clears the form and supersedes any step in flight.
func (o *Orchestrator) Reset() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = StateIdle
	o.form = FormState{}
	o.extracted = nil
	o.autofilled = false
	o.message = ""
	o.created = nil
	return o.snapshotLocked()
}

func (o *Orchestrator) emit(op, result string, d time.Duration, err error) {
	metrics.Emit(o.metrics, metrics.Event{Operation: op, Result: result, Duration: d, Err: err})
}

func submitMessage(err error) string {
	if apperrors.IsUnauthorized(err) {
		return msgUnauthorized
	}
	return apperrors.Message(err, msgSaveFallback)
}
