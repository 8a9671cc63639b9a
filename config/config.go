package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// CaptureRequest represents one requested screenshot job
type CaptureRequest struct {
	Env  string `json:"env"`
	Menu string `json:"menu"`
	URL  string `json:"url"`
}

// Validate checks that all required fields are present
func (r CaptureRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Env) == "" {
		missing = append(missing, "env")
	}
	if strings.TrimSpace(r.Menu) == "" {
		missing = append(missing, "menu")
	}
	if strings.TrimSpace(r.URL) == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load resolves the capture request list from one of three sources,
// first match wins: an argument naming an existing file, an argument
// that is itself JSON, or standard input when no argument is given.
func Load(arg string, stdin io.Reader) ([]CaptureRequest, error) {
	var data []byte
	var err error

	switch {
	case arg != "":
		if _, statErr := os.Stat(arg); statErr == nil {
			data, err = os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("error reading request file: %w", err)
			}
		} else if looksLikeJSON(arg) {
			data = []byte(arg)
		} else {
			return nil, fmt.Errorf("argument is neither an existing file nor inline JSON: %s", arg)
		}
	default:
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading standard input: %w", err)
		}
	}

	return parseRequests(data)
}

// parseRequests parses the raw input into a non-empty request list
func parseRequests(data []byte) ([]CaptureRequest, error) {
	var requests []CaptureRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("error parsing requests: input must be a JSON array of objects: %w", err)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no capture requests specified")
	}
	return requests, nil
}

// looksLikeJSON reports whether an argument should be treated as inline JSON
func looksLikeJSON(arg string) bool {
	trimmed := strings.TrimSpace(arg)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}
