package screenshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World!!", "hello-world"},
		{"  Spaced   Out  ", "spaced-out"},
		{"already-ok_1", "already-ok_1"},
		{"Wemix Testnet | Dashboard", "wemix-testnet-dashboard"},
		{"--trim--me--", "trim-me"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, slugify(c.in), "slugify(%q)", c.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World!!",
		"  Mixed CASE  with\ttabs ",
		"nothing-to-do",
		"ünïcode & symbols (v2)",
		"",
	}
	for _, in := range inputs {
		once := slugify(in)
		assert.Equal(t, once, slugify(once), "slugify not idempotent for %q", in)
	}
}

func TestPathSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://scan.example.com/wemixTestnet/dashboard", "dashboard"},
		{"https://scan.example.com/wemixTestnet/blocks/", "blocks"},
		{"https://scan.example.com/", "index"},
		{"https://scan.example.com", "index"},
		{"not a url", "unknown"},
		{"", "unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, pathSegment(c.in), "pathSegment(%q)", c.in)
	}
}

func TestTimestampToken(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 5, 9, 0, time.Local)
	assert.Equal(t, "2026-08-23_140509", timestampToken(now))
}

func TestTitleToken(t *testing.T) {
	url := "https://scan.example.com/wemixTestnet/dashboard"

	assert.Equal(t, "block-explorer", titleToken("Block Explorer", url))
	// Blank or unusable titles fall back to the URL path segment
	assert.Equal(t, "dashboard", titleToken("", url))
	assert.Equal(t, "dashboard", titleToken("   ", url))
	assert.Equal(t, "dashboard", titleToken("!!!", url))
}

func TestEvidenceFilename(t *testing.T) {
	stamp := "2026-08-23_140509"

	assert.Equal(t, "dashboard__2026-08-23_140509__block-explorer.png",
		evidenceFilename("dashboard", stamp, "block-explorer", true))
	assert.Equal(t, "dashboard__2026-08-23_140509__block-explorer__NOT_CONNECTED.png",
		evidenceFilename("dashboard", stamp, "block-explorer", false))
}
