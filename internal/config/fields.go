package config

import (
	"reflect"
	"strings"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

// fieldIndex maps a setting key to its struct field index.
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	t := reflect.TypeFor[Settings]()
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		index[name] = i
	}
	return index
}

// field returns the typed field under key as a coerced value.
func (s *Settings) field(key string) coerce.Value {
	fv := reflect.ValueOf(s).Elem().Field(fieldIndex[key])

	switch v := fv.Interface().(type) {
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case []string:
		if v == nil {
			return nil
		}
		return cloneValue(v)
	case map[string]string:
		if v == nil {
			return nil
		}
		return cloneValue(v)
	default:
		return v
	}
}

// cloneValue copies list and mapping values so callers never share storage
// with the settings.
func cloneValue(v coerce.Value) coerce.Value {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	default:
		return v
	}
}

// assign stores value under key, converting it to the field type.
// A nil value resets a non-nullable field to its zero value.
func (s *Settings) assign(key string, value coerce.Value) error {
	i, ok := fieldIndex[key]
	if !ok {
		if s.Extra == nil {
			s.Extra = map[string]coerce.Value{}
		}
		s.Extra[key] = cloneValue(value)
		return nil
	}

	fv := reflect.ValueOf(s).Elem().Field(i)
	if value == nil {
		fv.SetZero()
		return nil
	}

	switch fv.Interface().(type) {
	case string:
		if v, ok := value.(string); ok {
			fv.SetString(v)
			return nil
		}
		return &TypeError{Key: key, Value: value, Want: "string"}
	case int64:
		switch v := value.(type) {
		case int64:
			fv.SetInt(v)
			return nil
		case int:
			fv.SetInt(int64(v))
			return nil
		}
		return &TypeError{Key: key, Value: value, Want: "integer"}
	case bool:
		if v, ok := value.(bool); ok {
			fv.SetBool(v)
			return nil
		}
		return &TypeError{Key: key, Value: value, Want: "boolean"}
	case *string:
		if v, ok := value.(string); ok {
			fv.Set(reflect.ValueOf(&v))
			return nil
		}
		return &TypeError{Key: key, Value: value, Want: "string"}
	case []string:
		switch v := value.(type) {
		case []string:
			fv.Set(reflect.ValueOf(append([]string{}, v...)))
			return nil
		case string:
			fv.Set(reflect.ValueOf([]string{v}))
			return nil
		}
		return &TypeError{Key: key, Value: value, Want: "list"}
	case map[string]string:
		headers, err := toHeaderMap(value)
		if err != nil {
			return &TypeError{Key: key, Value: value, Want: "list of \"Name: value\" entries"}
		}
		fv.Set(reflect.ValueOf(headers))
		return nil
	}

	return &TypeError{Key: key, Value: value, Want: fv.Type().String()}
}
