package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/applytrack/applytrack/internal/domain/model"
	"github.com/applytrack/applytrack/internal/ports"
)

// LocalStore writes objects to a directory and serves them over HTTP.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. baseURL is the public prefix the files are served under.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("local storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the object. An existing key is an error.
func (s *LocalStore) Put(ctx context.Context, in ports.PutObjectInput) error {
	name := model.SanitizeFilename(in.Key)
	if name != in.Key {
		return fmt.Errorf("invalid object key %q", in.Key)
	}
	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	_, copyErr := io.Copy(f, &ctxReader{ctx: ctx, r: in.Body})
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// PublicURL returns baseURL/key.
func (s *LocalStore) PublicURL(key string) string {
	return s.baseURL + "/" + escapeKey(key)
}

// Handler serves stored files. Directory listings are disabled.
func (s *LocalStore) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}

// ctxReader stops copying once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
