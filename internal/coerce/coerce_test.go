package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{name: "digits", raw: "8080", want: int64(8080)},
		{name: "digits with padding", raw: "  42 \t", want: int64(42)},
		{name: "leading zeros", raw: "007", want: int64(7)},
		{name: "negative is not digits", raw: "-1", want: "-1"},
		{name: "overflow stays string", raw: "99999999999999999999", want: "99999999999999999999"},
		{name: "true", raw: "true", want: true},
		{name: "upper false", raw: "FALSE", want: false},
		{name: "mixed case true", raw: " True ", want: true},
		{name: "empty", raw: "", want: nil},
		{name: "blank", raw: "   ", want: nil},
		{name: "none", raw: "None", want: nil},
		{name: "NONE", raw: "NONE", want: nil},
		{name: "quoted list", raw: `[a, "b,c", d]`, want: []string{"a", "b,c", "d"}},
		{name: "numeric list stays strings", raw: "[1,2]", want: []string{"1", "2"}},
		{name: "empty list", raw: "[]", want: []string{""}},
		{name: "blank list", raw: "[ ]", want: []string{""}},
		{name: "lone comma list", raw: "[,]", want: []string{""}},
		{name: "lone bracket", raw: "[", want: "["},
		{name: "unterminated list", raw: "[a, b", want: "[a, b"},
		{name: "plain string", raw: "  HTTPS ", want: "HTTPS"},
		{name: "url", raw: "https://", want: "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParseDigitsAlwaysInteger(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"0", "1", "9", "10", "443", "65535", "1000000", "9223372036854775807"} {
		v, ok := Parse(raw).(int64)
		if !ok {
			t.Fatalf("expected %q to coerce to an integer, got %T", raw, Parse(raw))
		}
		if Format(v) != raw {
			t.Fatalf("expected %q, got %d", raw, v)
		}
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "jpg", want: []string{"jpg"}},
		{name: "trimmed elements", in: " jpg ,png,  gif ", want: []string{"jpg", "png", "gif"}},
		{name: "trailing comma", in: "a,b,", want: []string{"a", "b"}},
		{name: "empty element kept", in: "a,,b", want: []string{"a", "", "b"}},
		{name: "quoted with comma", in: `"x, y",z`, want: []string{"x, y", "z"}},
		{name: "quoted keeps inner spaces", in: `" padded "`, want: []string{" padded "}},
		{name: "quote not closing element", in: `"a"b, c`, want: []string{`"a"b`, "c"}},
		{name: "empty", in: "", want: []string{""}},
		{name: "lone quote", in: `a, ", b`, want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.in))
		})
	}
}

func TestSplitListIsPure(t *testing.T) {
	t.Parallel()

	first := SplitList(`a, "b,c", d`)
	second := SplitList(`a, "b,c", d`)
	assert.Equal(t, first, second)

	first[0] = "mutated"
	assert.Equal(t, "a", SplitList(`a, "b,c", d`)[0])
}
