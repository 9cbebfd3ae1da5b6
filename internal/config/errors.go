package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

// ErrMissingSection is returned when the config file has no `main` section.
var ErrMissingSection = errors.New("missing section")

// StartupAccessError reports a config file that is missing, not a regular file
// or not readable. The process must not continue.
type StartupAccessError struct {
	Path string
	Err  error
}

func (e *StartupAccessError) Error() string {
	return fmt.Sprintf("cannot open config file (%s)", e.Path)
}

func (e *StartupAccessError) Unwrap() error { return e.Err }

// ConfigParseError wraps any failure to interpret the contents of the file.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid config file (%s): %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// ValidationError describes a key whose value is outside its allowed set.
type ValidationError struct {
	Key     string
	Value   coerce.Value
	Allowed []coerce.Value
}

func (e *ValidationError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, a := range e.Allowed {
		allowed = append(allowed, "'"+coerce.Format(a)+"'")
	}
	return fmt.Sprintf("config.%s='%s' (%s) is invalid. Allowed values: {%s}",
		e.Key, coerce.Format(e.Value), coerce.TypeName(e.Value), strings.Join(allowed, ", "))
}

// UnknownOptionError is returned by Settings.Set for a key that neither the
// typed settings nor the loaded file know about.
type UnknownOptionError struct {
	Key string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Key)
}

// TypeError reports a value that cannot be stored in a typed setting.
type TypeError struct {
	Key   string
	Value coerce.Value
	Want  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("option %q: cannot use %s value %q as %s",
		e.Key, coerce.TypeName(e.Value), coerce.Format(e.Value), e.Want)
}
