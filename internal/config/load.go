package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

var errNotRegular = errors.New("not a regular file")

// iniLoadOptions keeps values as written: no inline comment stripping, quotes
// preserved, no backslash line joining, indented continuation lines joined.
var iniLoadOptions = ini.LoadOptions{
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	PreserveSurroundedQuote:    true,
	AllowPythonMultilineValues: true,
}

// Load builds the settings for opts: defaults, then opts, then the `main`
// section of opts.ConfigFile. The result is validated before it is returned;
// on any error no settings are returned.
//
// Errors are *StartupAccessError when the file cannot be opened,
// *ConfigParseError when its content is unusable, and one or more
// *ValidationError combined with multierr otherwise.
func Load(opts Options) (*Settings, error) {
	s := Defaults(opts)
	if err := s.load(opts.ConfigFile); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) load(path string) error {
	data, err := readConfigFile(path)
	if err != nil {
		return err
	}

	literals, err := scanSource(data)
	if err != nil {
		return &ConfigParseError{Path: path, Err: err}
	}

	file, err := ini.LoadSources(iniLoadOptions, data)
	if err != nil {
		return &ConfigParseError{Path: path, Err: err}
	}
	sec, err := file.GetSection(sectionName)
	if err != nil {
		return &ConfigParseError{Path: path, Err: fmt.Errorf("%w %q", ErrMissingSection, sectionName)}
	}

	names := optionNames(file, sec)
	overrides := make(map[string]coerce.Value, len(names))
	for _, name := range names {
		overrides[name] = coerce.Parse(optionValue(file, sec, name, literals))
	}

	if err := Validate(overlay{top: overrides, base: s}, SaneRules); err != nil {
		return err
	}

	for _, key := range names {
		if err := s.assign(key, overrides[key]); err != nil {
			return &ConfigParseError{Path: path, Err: err}
		}
	}

	if s.ExtraHTTPResponseHeaders != nil {
		headers, err := asciiHeaders(s.ExtraHTTPResponseHeaders)
		if err != nil {
			return &ConfigParseError{Path: path, Err: err}
		}
		s.ExtraHTTPResponseHeaders = headers
	}

	if _, ok := overrides["proto"]; !ok {
		s.Proto = protoFor(s.Transport)
	}
	s.deriveCertPaths()
	s.raw = file

	return nil
}

func (s *Settings) deriveCertPaths() {
	certs := filepath.Join(s.DataDir, "certs")
	if s.SSLKey == "" {
		s.SSLKey = filepath.Join(certs, "tor2web-key.pem")
	}
	if s.SSLCert == "" {
		s.SSLCert = filepath.Join(certs, "tor2web-cert.pem")
	}
	if s.SSLIntermediate == "" {
		s.SSLIntermediate = filepath.Join(certs, "tor2web-intermediate.pem")
	}
	if s.SSLDH == "" {
		s.SSLDH = filepath.Join(certs, "tor2web-dh.pem")
	}
}

// optionNames lists the options of sec followed by the DEFAULT options it
// inherits and does not override.
func optionNames(file *ini.File, sec *ini.Section) []string {
	names := sec.KeyStrings()
	for _, name := range file.Section(ini.DefaultSection).KeyStrings() {
		if !sec.HasKey(name) {
			names = append(names, name)
		}
	}
	return names
}

// optionValue returns the raw value of name as written in the file. Quoted
// literals the parser unwrapped are restored in the parser representation too.
func optionValue(file *ini.File, sec *ini.Section, name string, literals map[sourceKey]string) string {
	owner := sec
	if !sec.HasKey(name) {
		owner = file.Section(ini.DefaultSection)
	}
	key := owner.Key(name)
	if literal, ok := literals[sourceKey{section: owner.Name(), name: name}]; ok {
		key.SetValue(literal)
	}
	return key.Value()
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &StartupAccessError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &StartupAccessError{Path: path, Err: errNotRegular}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StartupAccessError{Path: path, Err: err}
	}
	return data, nil
}

// overlay reads top first and falls back to base.
type overlay struct {
	top  map[string]coerce.Value
	base Getter
}

func (o overlay) Get(key string) (coerce.Value, bool) {
	if v, ok := o.top[key]; ok {
		return v, true
	}
	return o.base.Get(key)
}
