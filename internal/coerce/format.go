package coerce

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format renders v in the syntax Parse understands, so that
// Parse(Format(v)) yields v again for every value Parse can produce.
// Strings that would themselves coerce to another type cannot round-trip.
func Format(v Value) string {
	switch t := v.(type) {
	case nil:
		return "none"
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case []string:
		return formatList(t)
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, k+": "+t[k])
		}
		return formatList(items)
	default:
		return fmt.Sprint(t)
	}
}

// TypeName names the dynamic type of v for diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case int64, int:
		return "integer"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []string:
		return "list"
	case map[string]string:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func formatList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		if strings.Contains(item, ",") || strings.TrimSpace(item) != item {
			item = `"` + item + `"`
		}
		quoted = append(quoted, item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
