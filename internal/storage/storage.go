// Package storage holds recipe image binaries in a content store keyed by
// path. The database only ever records the path.
package storage

import "context"

// ImageStore is the content store for uploaded recipe images.
type ImageStore interface {
	// Save writes data at the given path, overwriting any existing object.
	Save(ctx context.Context, path string, data []byte, contentType string) error
	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error
}
