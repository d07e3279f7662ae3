package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/internal/ports"
)

func TestBuildObjectStore_Local(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, files, err := buildObjectStore(config.StorageConfig{
		Driver:        config.StorageLocal,
		LocalDir:      dir,
		PublicBaseURL: "http://localhost:8080/files",
	}, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, files)

	err = store.Put(context.Background(), ports.PutObjectInput{
		Key:         "1-shot.png",
		ContentType: "image/png",
		Body:        bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/1-shot.png", store.PublicURL("1-shot.png"))

	rec := httptest.NewRecorder()
	files.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1-shot.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestBuildObjectStore_SupabaseNeedsKey(t *testing.T) {
	_, files, err := buildObjectStore(config.StorageConfig{
		Driver:      config.StorageSupabase,
		SupabaseURL: "https://proj.supabase.co",
	}, discardLogger())
	assert.ErrorContains(t, err, "create supabase store")
	assert.Nil(t, files)
}

func TestBuildObjectStore_Supabase(t *testing.T) {
	store, files, err := buildObjectStore(config.StorageConfig{
		Driver:      config.StorageSupabase,
		SupabaseURL: "https://proj.supabase.co",
		SupabaseKey: "key",
		Bucket:      "shots",
	}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, files)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/shots/a.png", store.PublicURL("a.png"))
}

func TestBuildRateLimiter(t *testing.T) {
	limiter, err := buildRateLimiter(config.RateLimitConfig{Enabled: false}, nil, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, limiter)

	limiter, err = buildRateLimiter(config.RateLimitConfig{Enabled: true, Limit: 5, Window: time.Minute}, nil, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, limiter, "no redis means no limiter")
}

func TestNewServices_RequiresInputs(t *testing.T) {
	_, err := NewServices(nil)
	require.Error(t, err)

	_, err = NewServices(&ServiceDeps{Config: &config.AppConfig{}})
	assert.ErrorContains(t, err, "record store is required")
}

func TestBuildMetrics_DisabledIsNil(t *testing.T) {
	assert.Nil(t, buildMetrics(discardLogger(), config.ObservabilityConfig{}))
}
