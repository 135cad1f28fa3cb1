package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dfryer1193/driveimages/images/domain"
)

var _ domain.ImageStore = (*FileImageStore)(nil)

// FileImageStore implements domain.ImageStore as a single JSON file
type FileImageStore struct {
	path string
}

func NewFileImageStore(path string) *FileImageStore {
	return &FileImageStore{
		path: path,
	}
}

// Load reads the registry file; a missing file is an empty registry
func (f *FileImageStore) Load(ctx context.Context) (*domain.Registry, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image file %s: %w", f.path, err)
	}

	return decodeRegistry(data)
}

// Save writes the registry to a temporary file and renames it over the old one
func (f *FileImageStore) Save(ctx context.Context, reg *domain.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	data, err := encodeRegistry(reg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create image file directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary image file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close image file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace image file: %w", err)
	}

	return nil
}
