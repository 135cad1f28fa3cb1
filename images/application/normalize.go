package application

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	driveHost       = "drive.google.com"
	directViewPath  = driveHost + "/uc"
	directViewURL   = "https://" + directViewPath + "?export=view&id="
	MinBareIDLength = 10 // heuristic; tunable
)

var (
	filePathIDRegex = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	queryIDRegex    = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	dPathIDRegex    = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	bareIDRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// normalizeRule is one step of the first-match-wins normalization list.
// The input handed to match and transform is already trimmed.
type normalizeRule struct {
	name      string
	match     func(input string) bool
	transform func(input string) string
}

// normalizeRules is evaluated in order. Looser patterns sit below stricter ones
// because they would also match inputs the stricter ones are meant to handle.
var normalizeRules = []normalizeRule{
	{
		name:      "direct-view",
		match:     func(input string) bool { return strings.Contains(input, directViewPath) },
		transform: passthrough,
	},
	{
		name:      "external-url",
		match:     func(input string) bool { return isAbsoluteURL(input) && !strings.Contains(input, driveHost) },
		transform: passthrough,
	},
	extractIDRule("file-path", filePathIDRegex),
	extractIDRule("id-query", queryIDRegex),
	extractIDRule("d-path", dPathIDRegex),
	{
		name:      "bare-id",
		match:     isBareID,
		transform: DirectViewURL,
	},
}

// Normalize maps a Drive share link or bare file ID to a direct-view URL.
// It never fails: anything it cannot interpret is returned trimmed but otherwise unchanged.
func Normalize(raw string) string {
	input := strings.TrimSpace(raw)
	for _, r := range normalizeRules {
		if r.match(input) {
			return r.transform(input)
		}
	}
	return input
}

// DirectViewURL builds the canonical direct-view URL for a Drive file ID
func DirectViewURL(id string) string {
	return directViewURL + id
}

func extractIDRule(name string, re *regexp.Regexp) normalizeRule {
	return normalizeRule{
		name:  name,
		match: re.MatchString,
		transform: func(input string) string {
			m := re.FindStringSubmatch(input)
			return DirectViewURL(m[1])
		},
	}
}

func passthrough(input string) string {
	return input
}

// hostlessSchemes may be absolute without an authority, e.g. mailto:a@b.c
var hostlessSchemes = map[string]bool{
	"mailto": true,
	"news":   true,
	"file":   true,
}

// isAbsoluteURL reports whether input parses as a URL with both scheme and host,
// or with a hostless scheme and a non-empty body
func isAbsoluteURL(input string) bool {
	if strings.ContainsAny(input, " \t\r\n") {
		return false
	}
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" {
		return false
	}
	if u.Host != "" {
		return true
	}
	return hostlessSchemes[strings.ToLower(u.Scheme)] && (u.Opaque != "" || u.Path != "")
}

func isBareID(input string) bool {
	return len(input) >= MinBareIDLength && bareIDRegex.MatchString(input)
}
