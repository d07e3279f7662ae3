package upload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetReusesPerSession(t *testing.T) {
	reg, err := NewRegistry(RegistryOptions{Deps: Deps{Objects: objectStore(t), Extractor: extractorFunc(nil), Records: noRecords(t)}})
	require.NoError(t, err)

	a, err := reg.Get("s1", "u1")
	require.NoError(t, err)
	again, err := reg.Get("s1", "u1")
	require.NoError(t, err)
	assert.Same(t, a, again)

	other, err := reg.Get("s2", "u1")
	require.NoError(t, err)
	assert.NotSame(t, a, other)

	switched, err := reg.Get("s1", "u2")
	require.NoError(t, err)
	assert.NotSame(t, a, switched)
	assert.Equal(t, 2, reg.Len())

	reg.Delete("s1")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	reg, err := NewRegistry(RegistryOptions{
		Deps:    Deps{Objects: objectStore(t), Extractor: extractorFunc(nil), Records: noRecords(t)},
		IdleTTL: 10 * time.Minute,
		Clock:   func() time.Time { return now },
	})
	require.NoError(t, err)

	_, err = reg.Get("old", "u1")
	require.NoError(t, err)
	now = now.Add(9 * time.Minute)
	_, err = reg.Get("fresh", "u2")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	reg, err := NewRegistry(RegistryOptions{Deps: Deps{Objects: objectStore(t), Extractor: extractorFunc(nil), Records: noRecords(t)}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
