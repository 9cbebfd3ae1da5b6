package config

import (
	"go.uber.org/multierr"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

// Getter is the read side of a settings store.
type Getter interface {
	Get(key string) (coerce.Value, bool)
}

// Rule restricts a key to an enumerated set of values.
type Rule struct {
	Key     string
	Allowed []coerce.Value
}

var booleans = []coerce.Value{true, false}

// SaneRules lists the known-sensitive keys. It is not exhaustive.
var SaneRules = []Rule{
	{Key: "transport", Allowed: []coerce.Value{"HTTP", "HTTPS", "BOTH"}},
	{Key: "logreqs", Allowed: booleans},
	{Key: "debugmode", Allowed: booleans},
	{Key: "debugtostdout", Allowed: booleans},
	{Key: "blockhotlinking", Allowed: booleans},
	{Key: "disable_banner", Allowed: booleans},
	{Key: "disable_gettor", Allowed: booleans},
	{Key: "disable_tor_redirection", Allowed: booleans},
	{Key: "proto", Allowed: []coerce.Value{"http://", "https://"}},
}

// Validate checks every rule against g and returns all violations combined
// with multierr; use multierr.Errors to list them. Keys g does not know are
// skipped.
func Validate(g Getter, rules []Rule) error {
	var err error
	for _, rule := range rules {
		value, ok := g.Get(rule.Key)
		if !ok {
			continue
		}
		if !allowed(value, rule.Allowed) {
			err = multierr.Append(err, &ValidationError{Key: rule.Key, Value: value, Allowed: rule.Allowed})
		}
	}
	return err
}

func allowed(value coerce.Value, set []coerce.Value) bool {
	switch value.(type) {
	case []string, map[string]string:
		// Not comparable; rules only enumerate scalars.
		return false
	}
	for _, a := range set {
		if a == value {
			return true
		}
	}
	return false
}
