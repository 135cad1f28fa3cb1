package application

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dfryer1193/driveimages/images/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxKeySeedLength  = 60
	fallbackKeyPrefix = "img-"
)

// GenerateKey derives a URL-safe key from seed, falling back to img-<unix seconds>
// when the seed has no usable characters
func GenerateKey(seed string) string {
	return generateKey(seed, time.Now())
}

func generateKey(seed string, now time.Time) string {
	key := slugify(truncateRunes(seed, maxKeySeedLength))
	if key == "" {
		key = fallbackKeyPrefix + strconv.FormatInt(now.Unix(), 10)
	}
	return key
}

// uniqueKey returns base if it is free, otherwise base-N for the smallest free N >= 1
func uniqueKey(base string, reg *domain.Registry) string {
	if !reg.Has(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !reg.Has(candidate) {
			return candidate
		}
	}
}

func truncateRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// foldAccents strips combining marks so "é" becomes "e" before slugging
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// slugify lowercases s and collapses every run of characters outside [a-z0-9] into one "-"
func slugify(s string) string {
	s = strings.ToLower(foldAccents(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
