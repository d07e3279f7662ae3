// Package objectstore implements screenshot storage backends.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/applytrack/applytrack/internal/ports"
)

// ErrUploadRejected is returned when the storage service answers with a non-2xx status.
var ErrUploadRejected = errors.New("storage upload rejected")

// SupabaseConfig configures a Supabase Storage bucket.
type SupabaseConfig struct {
	URL        string // project URL, e.g. https://xyz.supabase.co
	Key        string // service role or anon key
	Bucket     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// SupabaseStore uploads objects through the Supabase Storage REST API.
type SupabaseStore struct {
	base   string
	key    string
	bucket string
	hc     *http.Client
	log    *slog.Logger
}

// NewSupabaseStore validates cfg and builds the store.
func NewSupabaseStore(cfg SupabaseConfig) (*SupabaseStore, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("supabase URL is required")
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, errors.New("supabase key is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "screenshots"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SupabaseStore{
		base:   base,
		key:    cfg.Key,
		bucket: cfg.Bucket,
		hc:     hc,
		log:    logger.With("component", "supabase_storage"),
	}, nil
}

// Put uploads in.Body under in.Key. Existing objects are not overwritten.
func (s *SupabaseStore) Put(ctx context.Context, in ports.PutObjectInput) error {
	endpoint := s.base + "/storage/v1/object/" + url.PathEscape(s.bucket) + "/" + escapeKey(in.Key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, in.Body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if in.Size > 0 {
		req.ContentLength = in.Size
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", in.Key, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.log.Warn("storage response body close error", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUploadRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	s.log.InfoContext(ctx, "storage.upload.ok", "key", in.Key, "bucket", s.bucket)
	return nil
}

// PublicURL resolves the public address of key in the bucket.
func (s *SupabaseStore) PublicURL(key string) string {
	return s.base + "/storage/v1/object/public/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
