package upload

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/applytrack/applytrack/internal/observability/statsd"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Deps    Deps
	IdleTTL time.Duration // default 30m
	Logger  *slog.Logger
	Metrics statsd.Sink
	Clock   func() time.Time
}

type entry struct {
	orch     *Orchestrator
	lastSeen time.Time
}

// Registry holds one Orchestrator per browser session.
type Registry struct {
	deps    Deps
	ttl     time.Duration
	logger  *slog.Logger
	metrics statsd.Sink
	clock   func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry validates deps and returns an empty Registry.
func NewRegistry(opts RegistryOptions) (*Registry, error) {
	if opts.Deps.Objects == nil || opts.Deps.Extractor == nil || opts.Deps.Records == nil {
		return nil, errors.New("upload registry: objects, extractor and records are required")
	}
	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		deps:    opts.Deps,
		ttl:     ttl,
		logger:  logger,
		metrics: opts.Metrics,
		clock:   clock,
		entries: make(map[string]*entry),
	}, nil
}

// Get returns the orchestrator for sessionID, creating it for userID on first use.
func (r *Registry) Get(sessionID, userID string) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if e, ok := r.entries[sessionID]; ok && e.orch.userID == userID {
		e.lastSeen = now
		return e.orch, nil
	}
	orch, err := New(Options{
		Deps:    r.deps,
		UserID:  userID,
		Logger:  r.logger,
		Metrics: r.metrics,
		Clock:   r.clock,
	})
	if err != nil {
		return nil, err
	}
	r.entries[sessionID] = &entry{orch: orch, lastSeen: now}
	return orch, nil
}

// Delete drops the orchestrator for sessionID, typically on logout.
func (r *Registry) Delete(sessionID string) {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
}

// Len reports the number of live orchestrators.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts orchestrators idle longer than the TTL and not mid-step.
// It returns the number evicted.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock().Add(-r.ttl)
	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.After(cutoff) {
			continue
		}
		if e.orch.Snapshot().State.Busy() {
			continue
		}
		delete(r.entries, id)
		evicted++
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("evicted idle upload forms", "count", n)
			}
		}
	}
}
