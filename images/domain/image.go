package domain

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyInput is returned when a raw image reference or an import block is blank
var ErrEmptyInput = errors.New("image URL or file ID required")

// Image represents a registered external image reference
// URL is always derived from Raw, so it can be recomputed from a stored record at any time.
type Image struct {
	Key     string
	Title   string
	Raw     string
	URL     string
	Created time.Time
}

// ImageStore loads and saves the whole registry as a single unit.
// Implementations decide the medium (SQLite option row, Postgres row, JSON file).
type ImageStore interface {
	// Load returns the persisted registry, or an empty one if nothing has been saved yet
	Load(ctx context.Context) (*Registry, error)

	// Save replaces the persisted registry with reg
	Save(ctx context.Context, reg *Registry) error
}
