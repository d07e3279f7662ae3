package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	counts  []string
	timings []string
	tags    []map[string]string
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.counts = append(r.counts, name)
	r.tags = append(r.tags, tags)
}

func (r *recordingSink) Timing(name string, _ time.Duration, _ map[string]string) {
	r.timings = append(r.timings, name)
}

func TestEmit(t *testing.T) {
	sink := &recordingSink{}
	Emit(sink, Event{Operation: "extract", Result: ResultError, Duration: time.Second, Err: errors.New("x"), Tags: map[string]string{"source": "api"}})

	assert.Equal(t, []string{"extract.result"}, sink.counts)
	assert.Equal(t, []string{"extract.duration"}, sink.timings)
	assert.Equal(t, map[string]string{"source": "api", "result": "error", "error_class": "errors_errorstring"}, sink.tags[0])

	Emit(sink, Event{Operation: "upload", Result: ResultSuccess})
	assert.Len(t, sink.counts, 2)
	assert.Len(t, sink.timings, 1, "no timing without a duration")

	Emit(nil, Event{Operation: "noop"})
	Emit(sink, Event{})
	assert.Len(t, sink.counts, 2)
}

func TestResultFor(t *testing.T) {
	assert.Equal(t, ResultSuccess, ResultFor(nil))
	assert.Equal(t, ResultError, ResultFor(errors.New("x")))
}
