package archive

import (
	"context"
	"io"
)

// StorageDriver defines how archived histories are written to and read from object storage.
type StorageDriver interface {
	// Save writes the content under key, replacing any existing object.
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get returns a ReadCloser to stream the object back and its content type.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
