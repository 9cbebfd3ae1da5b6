package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

var errMalformedHeader = errors.New("header entry must look like \"Name: value\"")

func isNonASCII(r rune) bool { return r > unicode.MaxASCII }

// toHeaderMap accepts a mapping, a list of "Name: value" entries or a single
// such entry.
func toHeaderMap(value coerce.Value) (map[string]string, error) {
	var entries []string
	switch v := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, nil
	case []string:
		entries = v
	case string:
		entries = []string{v}
	default:
		return nil, fmt.Errorf("unsupported header value %T", value)
	}

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, val, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: %w", entry, errMalformedHeader)
		}
		out[name] = strings.TrimSpace(val)
	}
	return out, nil
}

// asciiHeaders re-encodes every header name and value to 7-bit ASCII. Non-ASCII
// characters are dropped, not rejected: header emission downstream expects
// already sanitised values. Invalid UTF-8 is dropped too.
func asciiHeaders(headers map[string]string) (map[string]string, error) {
	if headers == nil {
		return nil, nil
	}

	strip := runes.Remove(runes.Predicate(isNonASCII))
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		n, _, err := transform.String(strip, name)
		if err != nil {
			return nil, fmt.Errorf("sanitise header name %q: %w", name, err)
		}
		v, _, err := transform.String(strip, value)
		if err != nil {
			return nil, fmt.Errorf("sanitise header %q: %w", name, err)
		}
		out[n] = v
	}
	return out, nil
}
