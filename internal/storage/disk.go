package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes blobs under a root directory on the local filesystem.
// It is the default store for development and single-host deployments;
// the web server (or a fronting proxy) serves the files back under baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating media root %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Put writes the blob to <root>/<key>, creating intermediate directories.
func (s *DiskStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	_ = contentType // the filesystem has no content-type metadata
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// URL maps a key to its public path under the media base URL.
func (s *DiskStore) URL(key string) string {
	return s.baseURL + "/" + key
}
