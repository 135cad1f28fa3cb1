package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dfryer1193/driveimages/images/domain"
)

// DefaultOptionName is the name the registry blob is stored under
const DefaultOptionName = "gdrive_image_loader_images"

func encodeRegistry(reg *domain.Registry) ([]byte, error) {
	data, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image registry: %w", err)
	}
	return data, nil
}

func decodeRegistry(data []byte) (*domain.Registry, error) {
	reg := domain.NewRegistry()
	if len(bytes.TrimSpace(data)) == 0 {
		return reg, nil
	}
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to decode image registry: %w", err)
	}
	return reg, nil
}
