package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// CreatedLayout is the timestamp layout used for the persisted created field
const CreatedLayout = "2006-01-02 15:04:05"

// Registry is an insertion-ordered mapping from key to Image
type Registry struct {
	keys    []string
	records map[string]*Image
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Image),
	}
}

// Len returns the number of records
func (r *Registry) Len() int {
	return len(r.keys)
}

// Has reports whether key is present
func (r *Registry) Has(key string) bool {
	_, ok := r.records[key]
	return ok
}

// Get returns a copy of the record stored under key
func (r *Registry) Get(key string) (*Image, bool) {
	img, ok := r.records[key]
	if !ok {
		return nil, false
	}
	cp := *img
	return &cp, true
}

// Put stores img under img.Key. A new key is appended; an existing key keeps its position.
func (r *Registry) Put(img *Image) {
	if img == nil {
		return
	}
	if r.records == nil {
		r.records = make(map[string]*Image)
	}
	cp := *img
	if _, exists := r.records[cp.Key]; !exists {
		r.keys = append(r.keys, cp.Key)
	}
	r.records[cp.Key] = &cp
}

// Delete removes key and reports whether anything was removed
func (r *Registry) Delete(key string) bool {
	if _, ok := r.records[key]; !ok {
		return false
	}
	delete(r.records, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Images returns copies of all records in insertion order
func (r *Registry) Images() []*Image {
	images := make([]*Image, 0, len(r.keys))
	for _, k := range r.keys {
		cp := *r.records[k]
		images = append(images, &cp)
	}
	return images
}

// imageRecord is the persisted form of an Image; the key lives in the enclosing object
type imageRecord struct {
	Title   string `json:"title"`
	Raw     string `json:"raw"`
	URL     string `json:"url"`
	Created string `json:"created"`
}

// MarshalJSON encodes the registry as a JSON object, keeping insertion order
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		img := r.records[k]
		rec := imageRecord{
			Title: img.Title,
			Raw:   img.Raw,
			URL:   img.URL,
		}
		if !img.Created.IsZero() {
			rec.Created = img.Created.Format(CreatedLayout)
		}
		recJSON, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %q: %w", k, err)
		}
		buf.Write(recJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of records, keeping the order keys appear in
func (r *Registry) UnmarshalJSON(data []byte) error {
	r.keys = nil
	r.records = make(map[string]*Image)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("registry must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read registry key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("registry key must be a string, got %v", tok)
		}

		var rec imageRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("failed to decode record %q: %w", key, err)
		}

		img := &Image{
			Key:   key,
			Title: rec.Title,
			Raw:   rec.Raw,
			URL:   rec.URL,
		}
		if rec.Created != "" {
			created, err := time.ParseInLocation(CreatedLayout, rec.Created, time.Local)
			if err != nil {
				return fmt.Errorf("invalid created time for %q: %w", key, err)
			}
			img.Created = created
		}
		r.Put(img)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to close registry object: %w", err)
	}
	return nil
}
