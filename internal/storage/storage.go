package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore persists uploaded files under a configured directory, assigning
// each a collision-free name.
type UploadStore struct {
	dir string
}

// NewUploadStore creates an UploadStore rooted at dir.
func NewUploadStore(dir string) *UploadStore {
	return &UploadStore{dir: dir}
}

// Dir returns the root directory of the store.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save writes the file under a generated unique name, keeping the original
// extension, and returns the stored name.
func (s *UploadStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return name, nil
}
