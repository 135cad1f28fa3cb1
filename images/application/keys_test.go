package application

import (
	"strings"
	"testing"
	"time"

	"github.com/dfryer1193/driveimages/images/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Simple word", input: "Sunset", expected: "sunset"},
		{name: "Spaces", input: "Summer Holiday 2024", expected: "summer-holiday-2024"},
		{name: "Symbol runs collapse", input: "a --__ b", expected: "a-b"},
		{name: "Leading and trailing symbols", input: "  --Hello!!  ", expected: "hello"},
		{name: "Accents folded", input: "Café Crème", expected: "cafe-creme"},
		{name: "Drive URL", input: "https://drive.google.com/file/d/1AbC-23xYz/view?usp=sharing", expected: "https-drive-google-com-file-d-1abc-23xyz-view-usp-sharing"},
		{name: "Only symbols", input: "!!!***", expected: ""},
		{name: "Empty", input: "", expected: ""},
		{name: "Non-latin script dropped", input: "日本 photo", expected: "photo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := slugify(tt.input)
			if result != tt.expected {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGenerateKey_TruncatesSeed(t *testing.T) {
	seed := strings.Repeat("a", 59) + " bcdef"
	result := generateKey(seed, time.Unix(0, 0))

	// The 60 character cut lands on the space, so none of the second word survives
	want := strings.Repeat("a", 59)
	if result != want {
		t.Errorf("generateKey() = %q, want %q", result, want)
	}

	seed = strings.Repeat("é", 70)
	result = generateKey(seed, time.Unix(0, 0))
	if result != strings.Repeat("e", 60) {
		t.Errorf("generateKey() = %q, want 60 e's", result)
	}
}

func TestGenerateKey_Fallback(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []string{"", "   ", "!!!", "日本語"}
	for _, seed := range tests {
		result := generateKey(seed, now)
		if result != "img-1700000000" {
			t.Errorf("generateKey(%q) = %q, want %q", seed, result, "img-1700000000")
		}
	}
}

func TestGenerateKey_UsesDriveURL(t *testing.T) {
	raw := "https://drive.google.com/file/d/1AbC-23xYz/view?usp=sharing"
	want := "https-drive-google-com-file-d-1abc-23xyz-view-usp-sharing"
	if got := GenerateKey(raw); got != want {
		t.Errorf("GenerateKey(%q) = %q, want %q", raw, got, want)
	}
}

func TestUniqueKey(t *testing.T) {
	reg := domain.NewRegistry()

	if got := uniqueKey("sunset", reg); got != "sunset" {
		t.Errorf("uniqueKey() = %q, want %q", got, "sunset")
	}

	reg.Put(&domain.Image{Key: "sunset"})
	if got := uniqueKey("sunset", reg); got != "sunset-1" {
		t.Errorf("uniqueKey() = %q, want %q", got, "sunset-1")
	}

	// A gap in the suffixes is filled before higher numbers are used
	reg.Put(&domain.Image{Key: "sunset-2"})
	if got := uniqueKey("sunset", reg); got != "sunset-1" {
		t.Errorf("uniqueKey() = %q, want %q", got, "sunset-1")
	}

	reg.Put(&domain.Image{Key: "sunset-1"})
	if got := uniqueKey("sunset", reg); got != "sunset-3" {
		t.Errorf("uniqueKey() = %q, want %q", got, "sunset-3")
	}
}
