package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())

	assert.Equal(t, "/etc/tor2web.conf", s.ConfigFile)
	assert.Equal(t, "BOTH", s.Transport)
	assert.Equal(t, "https://", s.Proto)
	assert.Equal(t, int64(9050), s.SocksPort)
	assert.Equal(t, []string{"jpg", "png", "gif"}, s.BlockHotlinkingExts)
	assert.Nil(t, s.ListenIPv6)
	assert.NoError(t, s.Validate())
}

func TestDefaultsDevelopmentDataDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "data"), 0o755))

	s := Defaults(Options{Executable: filepath.Join(root, "bin", "tor2web")})
	assert.Equal(t, filepath.Join(root, "data"), s.SysDataDir)

	s = Defaults(Options{Executable: filepath.Join(root, "tor2web")})
	assert.Equal(t, "/usr/share/tor2web/data", s.SysDataDir)
}

func TestGet(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())

	tests := []struct {
		key       string
		want      coerce.Value
		wantFound bool
	}{
		{key: "listen_port_http", want: int64(80), wantFound: true},
		{key: "debugmode", want: true, wantFound: true},
		{key: "transport", want: "BOTH", wantFound: true},
		{key: "listen_ipv6", want: nil, wantFound: true},
		{key: "extra_http_response_headers", want: nil, wantFound: true},
		{key: "mirror", want: []string{}, wantFound: true},
		{key: "never_set", want: nil, wantFound: false},
		{key: "_private", want: nil, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, found := s.Get(tt.key)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestGetReturnsCopies(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	exts, _ := s.Get("blockhotlinking_exts")
	exts.([]string)[0] = "bmp"

	assert.Equal(t, "jpg", s.BlockHotlinkingExts[0])
}

func TestGetReturnsCopiesOfExtraValues(t *testing.T) {
	t.Parallel()

	s, err := loadContent(t, "[main]\ncustom_hosts = [a, b]\n")
	require.NoError(t, err)

	hosts, _ := s.Get("custom_hosts")
	hosts.([]string)[0] = "changed"

	again, _ := s.Get("custom_hosts")
	assert.Equal(t, []string{"a", "b"}, again)

	value := []string{"x", "y"}
	require.NoError(t, s.Set("custom_hosts", value))
	value[0] = "changed"

	again, _ = s.Get("custom_hosts")
	assert.Equal(t, []string{"x", "y"}, again)
}

func TestSetPrivate(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	values := []coerce.Value{int64(3), "x", nil, []string{"a"}, struct{ n int }{1}}

	for i, v := range values {
		key := fmt.Sprintf("_private%d", i)
		require.NoError(t, s.Set(key, v))

		got, found := s.Get(key)
		assert.True(t, found)
		assert.Equal(t, v, got)
	}

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "_private")
}

func TestSetMirrorsIntoParser(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	require.NoError(t, s.Set("transport", "HTTP"))
	require.NoError(t, s.Set("socksport", int64(9150)))
	require.NoError(t, s.Set("blockhotlinking_exts", []string{"jpg", "we,bp"}))
	require.NoError(t, s.Set("listen_ipv6", "::1"))

	assert.Equal(t, "HTTP", s.Transport)
	assert.Equal(t, int64(9150), s.SocksPort)
	assert.Equal(t, "::1", *s.ListenIPv6)

	raw := reparse(t, s)
	assert.Equal(t, "HTTP", raw.Key("transport").String())
	assert.Equal(t, int64(9150), coerce.Parse(raw.Key("socksport").String()))
	assert.Equal(t, []string{"jpg", "we,bp"}, coerce.Parse(raw.Key("blockhotlinking_exts").String()))
}

func TestSetNil(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	require.NoError(t, s.Set("listen_ipv6", "::1"))
	require.NoError(t, s.Set("listen_ipv6", nil))
	require.NoError(t, s.Set("smtpuser", nil))

	got, found := s.Get("listen_ipv6")
	assert.True(t, found)
	assert.Nil(t, got)
	assert.Equal(t, "", s.SMTPUser)
	assert.Equal(t, "none", reparse(t, s).Key("listen_ipv6").String())
}

func TestSetErrors(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())

	err := s.Set("no_such_option", "x")
	var unknown *UnknownOptionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "no_such_option", unknown.Key)
	_, found := s.Get("no_such_option")
	assert.False(t, found)

	err = s.Set("socksport", "not a port")
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "socksport", typeErr.Key)
	assert.Equal(t, int64(9050), s.SocksPort)
}

func TestSetThenValidate(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	require.NoError(t, s.Set("transport", "FOO"))

	var vErr *ValidationError
	require.True(t, errors.As(s.Validate(), &vErr))
	assert.Equal(t, "transport", vErr.Key)
}

func TestDumpYAML(t *testing.T) {
	t.Parallel()

	s := Defaults(DefaultOptions())
	require.NoError(t, s.Set("_secret", "hidden"))

	var buf bytes.Buffer
	require.NoError(t, s.DumpYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "transport: BOTH\n")
	assert.Contains(t, out, "listen_port_http: 80\n")
	assert.Contains(t, out, "listen_ipv6: null\n")
	assert.NotContains(t, out, "hidden")
}

func TestSettingsConcurrentAccess(t *testing.T) {
	s := Defaults(DefaultOptions())
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			if err := s.Set("socksport", int64(9050+offset)); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, found := s.Get("socksport"); !found {
				t.Errorf("expected socksport to be known")
			}
		}()
	}

	wg.Wait()
}

func reparse(t *testing.T, s *Settings) *ini.Section {
	t.Helper()

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	file, err := ini.LoadSources(iniLoadOptions, buf.Bytes())
	require.NoError(t, err)
	sec, err := file.GetSection(sectionName)
	require.NoError(t, err)
	return sec
}
