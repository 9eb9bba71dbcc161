// Package storage abstracts where uploaded picture blobs live. The API
// only ever writes whole objects under generated keys and turns keys into
// serveable URLs; everything else is the store's business.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// BlobStore persists uploaded bytes under a key and resolves keys to URLs.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	URL(key string) string
}

// PictureImageKey generates a fresh object key for a picture upload. Every
// upload gets a new key so a stale cached URL can never serve new bytes.
func PictureImageKey(ext string) string {
	return fmt.Sprintf("uploads/picture/%s.%s", uuid.New().String(), ext)
}
