package ports

import (
	"context"
	"io"
)

// PutObjectInput describes one binary upload.
type PutObjectInput struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStore accepts binary uploads and resolves their public addresses.
type ObjectStore interface {
	Put(ctx context.Context, in PutObjectInput) error
	PublicURL(key string) string
}
