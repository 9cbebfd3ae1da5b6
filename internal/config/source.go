package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	errMissingSectionHeader = errors.New("option before the first section header")
	errDuplicateSection     = errors.New("duplicate section")
	errDuplicateOption      = errors.New("duplicate option")
	errUnterminatedLiteral  = errors.New("quoted value is not closed on its line")
)

type sourceKey struct {
	section string
	name    string
}

// scanSource walks the raw file line by line and rejects what the INI parser
// would accept silently: options before any section header, repeated sections
// and repeated options. Values starting with a backtick or `"""` are returned
// verbatim because the parser unwraps them.
func scanSource(data []byte) (map[sourceKey]string, error) {
	literals := map[sourceKey]string{}
	sections := map[string]bool{}
	options := map[sourceKey]bool{}
	section := ""
	inValue := false

	sc := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		// Indented lines continue the previous value, except after a quoted
		// literal.
		if inValue && (raw[0] == ' ' || raw[0] == '\t') {
			continue
		}

		if line[0] == '[' {
			closeIdx := strings.LastIndexByte(line, ']')
			if closeIdx == -1 {
				// Reported by the parser.
				continue
			}
			name := line[1:closeIdx]
			if sections[name] {
				return nil, fmt.Errorf("line %d: %w %q", lineNo, errDuplicateSection, name)
			}
			sections[name] = true
			section = name
			inValue = false
			continue
		}

		if section == "" {
			return nil, fmt.Errorf("line %d: %w", lineNo, errMissingSectionHeader)
		}

		i := strings.IndexAny(line, "=:")
		if i <= 0 {
			continue
		}
		key := sourceKey{section: section, name: strings.TrimSpace(line[:i])}
		if options[key] {
			return nil, fmt.Errorf("line %d: %w %q in section %q", lineNo, errDuplicateOption, key.name, section)
		}
		options[key] = true
		inValue = true

		value := strings.TrimSpace(line[i+1:])
		switch {
		case len(value) > 3 && strings.HasPrefix(value, `"""`):
			if !strings.Contains(value[3:], `"""`) {
				return nil, fmt.Errorf("line %d: %w", lineNo, errUnterminatedLiteral)
			}
			literals[key] = value
			inValue = false
		case strings.HasPrefix(value, "`"):
			if !strings.Contains(value[1:], "`") {
				return nil, fmt.Errorf("line %d: %w", lineNo, errUnterminatedLiteral)
			}
			literals[key] = value
			inValue = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return literals, nil
}
