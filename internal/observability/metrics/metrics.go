// Package metrics defines the application's metric names and tags.
package metrics

import (
	"time"

	obserrors "github.com/applytrack/applytrack/internal/observability/errors"
	"github.com/applytrack/applytrack/internal/observability/statsd"
)

// Result tag values.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultStale       = "stale"
	ResultRejected    = "rejected"
	ResultRateLimited = "rate_limited"
)

// Event is one timed operation outcome.
type Event struct {
	Operation string // e.g. "extract", "upload", "record.create"
	Result    string
	Duration  time.Duration
	Err       error
	Tags      map[string]string
}

// Emit records op.result and, when a duration is set, op.duration.
func Emit(sink statsd.Sink, ev Event) {
	if sink == nil || ev.Operation == "" {
		return
	}
	tags := make(map[string]string, len(ev.Tags)+2)
	for k, v := range ev.Tags {
		tags[k] = v
	}
	tags["result"] = ev.Result
	if ev.Err != nil && ev.Result == ResultError {
		tags["error_class"] = obserrors.Classify(ev.Err)
	}

	sink.Count(ev.Operation+".result", 1, tags)
	if ev.Duration > 0 {
		sink.Timing(ev.Operation+".duration", ev.Duration, tags)
	}
}

// ResultFor maps err to ResultSuccess or ResultError.
func ResultFor(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
