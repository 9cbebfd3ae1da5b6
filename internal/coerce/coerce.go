package coerce

import (
	"regexp"
	"strconv"
	"strings"
)

// Value is a coerced configuration value: nil, int64, bool, string or []string.
type Value = any

var listPattern = regexp.MustCompile(`\s*("[^"]*"|.*?)\s*,`)

// Parse applies the coercion rules in order, first match wins:
//
//  1. digits only      -> int64
//  2. true / false     -> bool (case-insensitive)
//  3. empty / none     -> nil  (case-insensitive)
//  4. [ ... ]          -> []string via SplitList
//  5. anything else    -> the trimmed string
//
// Surrounding whitespace is trimmed before any rule is tried.
func Parse(raw string) Value {
	value := strings.TrimSpace(raw)

	if isDigits(value) {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}

	lower := strings.ToLower(value)
	switch lower {
	case "true", "false":
		return lower == "true"
	case "", "none":
		return nil
	}

	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") && len(value) >= 2 {
		return SplitList(value[1 : len(value)-1])
	}

	return value
}

// SplitList splits the interior of a bracket literal on commas. Elements may be
// wrapped in double quotes to carry commas; the quotes are stripped and
// unquoted elements are trimmed. An empty interior yields one empty element.
func SplitList(line string) []string {
	line = strings.TrimSpace(line)
	matches := listPattern.FindAllStringSubmatch(strings.TrimRight(line, ",")+",", -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		item := m[1]
		switch {
		case item == `"`:
			item = ""
		case len(item) >= 2 && item[0] == '"' && item[len(item)-1] == '"':
			item = item[1 : len(item)-1]
		}
		out = append(out, item)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
