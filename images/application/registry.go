package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/rs/zerolog/log"
)

var lineBreakRegex = regexp.MustCompile(`\r?\n`)

// Registry assigns keys to image references and persists them through an ImageStore.
// It does no locking of its own: callers must serialize writers.
type Registry struct {
	store domain.ImageStore
	now   func() time.Time
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithClock overrides the time source used for created timestamps and fallback keys
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(store domain.ImageStore, opts ...RegistryOption) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a single image and returns its key.
// An empty title falls back to the raw input.
func (r *Registry) Add(ctx context.Context, title, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrEmptyInput
	}

	reg, err := r.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load image registry: %w", err)
	}

	img := r.insert(reg, strings.TrimSpace(title), raw)

	if err := r.store.Save(ctx, reg); err != nil {
		return "", fmt.Errorf("failed to save image registry: %w", err)
	}

	log.Info().Str("key", img.Key).Str("url", img.URL).Msg("Image added")
	return img.Key, nil
}

// BulkImport registers one image per non-blank line of text and saves once for the whole batch.
// Each line is used as both the raw reference and the title.
func (r *Registry) BulkImport(ctx context.Context, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, domain.ErrEmptyInput
	}

	reg, err := r.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load image registry: %w", err)
	}

	count := 0
	for _, line := range lineBreakRegex.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		img := r.insert(reg, line, line)
		log.Debug().Str("key", img.Key).Str("raw", img.Raw).Msg("Queued image for import")
		count++
	}

	if err := r.store.Save(ctx, reg); err != nil {
		return 0, fmt.Errorf("failed to save image registry: %w", err)
	}

	log.Info().Int("count", count).Msg("Imported images")
	return count, nil
}

// Delete removes the image stored under key. The registry is only saved when something was removed.
func (r *Registry) Delete(ctx context.Context, key string) (bool, error) {
	reg, err := r.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load image registry: %w", err)
	}

	if !reg.Delete(key) {
		return false, nil
	}

	if err := r.store.Save(ctx, reg); err != nil {
		return false, fmt.Errorf("failed to save image registry: %w", err)
	}

	log.Info().Str("key", key).Msg("Image removed")
	return true, nil
}

// Get looks up a single image by key
func (r *Registry) Get(ctx context.Context, key string) (*domain.Image, bool, error) {
	reg, err := r.store.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load image registry: %w", err)
	}

	img, ok := reg.Get(key)
	return img, ok, nil
}

// List returns every image in insertion order
func (r *Registry) List(ctx context.Context) ([]*domain.Image, error) {
	reg, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load image registry: %w", err)
	}

	return reg.Images(), nil
}

// Snapshot returns the currently persisted registry for read-only rendering passes
func (r *Registry) Snapshot(ctx context.Context) (*domain.Registry, error) {
	reg, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load image registry: %w", err)
	}
	return reg, nil
}

// insert adds a record to reg under a collision-free key derived from title
func (r *Registry) insert(reg *domain.Registry, title, raw string) *domain.Image {
	if title == "" {
		title = raw
	}

	now := r.now()
	img := &domain.Image{
		Key:     uniqueKey(generateKey(title, now), reg),
		Title:   title,
		Raw:     raw,
		URL:     Normalize(raw),
		Created: now.Truncate(time.Second),
	}
	reg.Put(img)
	return img
}
