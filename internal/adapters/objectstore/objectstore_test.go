package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/ports"
)

func TestSupabaseStore_Put(t *testing.T) {
	var gotPath, gotAuth, gotKey, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"screenshots/1-a.png"}`))
	}))
	defer srv.Close()

	store, err := NewSupabaseStore(SupabaseConfig{URL: srv.URL + "/", Key: "secret", Bucket: "screenshots"})
	require.NoError(t, err)

	err = store.Put(context.Background(), ports.PutObjectInput{
		Key:         "1-a.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/screenshots/1-a.png", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "data", gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/screenshots/1-a.png", store.PublicURL("1-a.png"))
}

func TestSupabaseStore_PutRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
	}))
	defer srv.Close()

	store, err := NewSupabaseStore(SupabaseConfig{URL: srv.URL, Key: "k"})
	require.NoError(t, err)

	err = store.Put(context.Background(), ports.PutObjectInput{Key: "x.png", Body: strings.NewReader("x")})
	require.ErrorIs(t, err, ErrUploadRejected)
	assert.Contains(t, err.Error(), "409")
}

func TestNewSupabaseStore_Validation(t *testing.T) {
	_, err := NewSupabaseStore(SupabaseConfig{Key: "k"})
	require.Error(t, err)
	_, err = NewSupabaseStore(SupabaseConfig{URL: "https://x.supabase.co"})
	require.Error(t, err)
}

func TestLocalStore_PutAndServe(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/files/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, ports.PutObjectInput{Key: "1-a.png", Body: strings.NewReader("png")}))

	b, err := os.ReadFile(filepath.Join(dir, "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))
	assert.Equal(t, "http://localhost:8080/files/1-a.png", store.PublicURL("1-a.png"))

	// duplicate keys are refused
	require.Error(t, store.Put(ctx, ports.PutObjectInput{Key: "1-a.png", Body: strings.NewReader("again")}))

	h := http.StripPrefix("/files", store.Handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/1-a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://x/files")
	require.NoError(t, err)
	err = store.Put(context.Background(), ports.PutObjectInput{Key: "../escape.png", Body: strings.NewReader("x")})
	require.Error(t, err)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://x/files")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Put(ctx, ports.PutObjectInput{Key: "c.png", Body: strings.NewReader("x")})
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "c.png"))
	assert.True(t, os.IsNotExist(statErr))
}
