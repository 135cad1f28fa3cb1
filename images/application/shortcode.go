package application

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/dfryer1193/driveimages/images/domain"
)

const (
	imageShortcode    = "gdrive_image"
	imageURLShortcode = "gdrive_image_url"
)

var (
	shortcodeRegex     = regexp.MustCompile(`\[(gdrive_image_url|gdrive_image)((?:\s+[^\]]*)?)\]`)
	shortcodeAttrRegex = regexp.MustCompile(`([A-Za-z_][\w-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// ImageTag renders an img element for img. alt defaults to the image title; class is omitted when empty.
func ImageTag(img *domain.Image, alt, class string) string {
	if alt == "" {
		alt = img.Title
	}

	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(html.EscapeString(img.URL))
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(alt))
	b.WriteByte('"')
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteByte('"')
	}
	b.WriteString(">")
	return b.String()
}

// ShortcodeRenderer expands [gdrive_image] and [gdrive_image_url] shortcodes against the current registry
type ShortcodeRenderer struct {
	images SnapshotSource
}

func NewShortcodeRenderer(images SnapshotSource) *ShortcodeRenderer {
	return &ShortcodeRenderer{images: images}
}

// ExpandShortcodes replaces [gdrive_image key="..."] and [gdrive_image_url key="..."] in content
// with HTML-escaped markup. Unknown keys expand to nothing.
func (s *ShortcodeRenderer) ExpandShortcodes(ctx context.Context, content string) (string, error) {
	reg, err := s.images.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return expandShortcodes(reg, content, html.EscapeString), nil
}

// expandShortcodes writes [gdrive_image_url] values through urlText. Markdown input
// gets the raw URL since goldmark escapes text on output.
func expandShortcodes(reg *domain.Registry, content string, urlText func(string) string) string {
	return shortcodeRegex.ReplaceAllStringFunc(content, func(code string) string {
		m := shortcodeRegex.FindStringSubmatch(code)
		attrs := parseShortcodeAttrs(m[2])

		img, ok := reg.Get(attrs["key"])
		if !ok {
			return ""
		}

		switch m[1] {
		case imageURLShortcode:
			return urlText(img.URL)
		case imageShortcode:
			return ImageTag(img, attrs["alt"], attrs["class"])
		}
		return ""
	})
}

func parseShortcodeAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range shortcodeAttrRegex.FindAllStringSubmatch(s, -1) {
		name := strings.ToLower(m[1])
		switch {
		case m[2] != "":
			attrs[name] = m[2]
		case m[3] != "":
			attrs[name] = m[3]
		default:
			attrs[name] = m[4]
		}
	}
	return attrs
}
