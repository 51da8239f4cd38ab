package service

import (
	"context"
)

// ImageStorage stores uploaded images in an object store and serves them by public URL.
type ImageStorage interface {
	// Upload writes data under bucket/path and returns its public URL.
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (publicURL string, err error)

	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, bucket, path string) error
}
