package screenshot

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	invalidChars   = regexp.MustCompile(`[^a-z0-9_-]+`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
)

// slugify turns free text into a filesystem-safe token: lowercase, whitespace
// runs collapsed to a single hyphen, anything outside [a-z0-9_-] stripped,
// repeated hyphens collapsed, leading and trailing hyphens removed.
// Idempotent; empty input yields an empty token.
func slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// pathSegment extracts the last non-empty path segment of an absolute URL,
// "index" when the path has no segments, "unknown" when the URL does not
// parse as an absolute URL. Never fails.
func pathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "unknown"
	}

	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return "index"
}

// timestampToken formats a time as a sortable YYYY-MM-DD_HHMMSS token in
// local time. Two captures within the same second produce the same token.
func timestampToken(now time.Time) string {
	return now.Format("2006-01-02_150405")
}

// titleToken derives the filename title part: the slugified page title when
// it yields a non-empty token, otherwise the URL's last path segment.
func titleToken(title, rawURL string) string {
	if slug := slugify(title); slug != "" {
		return slug
	}
	return pathSegment(rawURL)
}

// evidenceFilename builds the screenshot filename for one capture
func evidenceFilename(menu, stamp, title string, connected bool) string {
	suffix := ""
	if !connected {
		suffix = "__NOT_CONNECTED"
	}
	return menu + "__" + stamp + "__" + title + suffix + ".png"
}
