package imageservice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrBlobNotFound = errors.New("image file not found")

// BlobStore holds uploaded image bytes on disk, one file per image id named
// by the id and the original extension. The extension is not recorded in the
// database, so lookups probe the allowed extensions in order.
type BlobStore struct {
	dir string
}

// NewBlobStore creates the upload directory when it is missing.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}

	return &BlobStore{dir: dir}, nil
}

func (b *BlobStore) path(id int, ext string) string {
	return filepath.Join(b.dir, fmt.Sprintf("%d%s", id, ext))
}

func (b *BlobStore) Write(id int, ext string, data []byte) error {
	return os.WriteFile(b.path(id, ext), data, 0o644)
}

// Find returns the path of the stored file for the given image id, probing
// each allowed extension until one matches.
func (b *BlobStore) Find(id int) (string, bool) {
	for _, ext := range allowedExtensions {
		path := b.path(id, ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

func (b *BlobStore) Read(id int) ([]byte, error) {
	path, ok := b.Find(id)
	if !ok {
		return nil, ErrBlobNotFound
	}

	return os.ReadFile(path)
}

// Remove deletes the stored file for the given image id, reporting whether a
// file was found.
func (b *BlobStore) Remove(id int) bool {
	path, ok := b.Find(id)
	if !ok {
		return false
	}

	return os.Remove(path) == nil
}
