package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/tor2web/internal/coerce"
)

const (
	sectionName   = "main"
	privatePrefix = "_"

	defaultCipherList = "ECDHE-RSA-AES256-GCM-SHA384:ECDHE-RSA-AES256-SHA384:" +
		"ECDHE-RSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-SHA256:" +
		"ECDHE-RSA-AES256-SHA:DHE-DSS-AES256-SHA:DHE-RSA-AES128-SHA:"
)

// Settings is the relay configuration. The yaml tag of each field is also its
// key in the config file and for Get/Set.
//
// Fields may be read directly once loading has finished. Get and Set are
// synchronized and are the only safe way to access settings that are being
// changed at runtime.
type Settings struct {
	// Launch options.
	ConfigFile string `yaml:"configfile"`
	PidFile    string `yaml:"pidfile"`
	UID        string `yaml:"uid"`
	GID        string `yaml:"gid"`
	NoDaemon   bool   `yaml:"nodaemon"`
	RunDir     string `yaml:"rundir"`
	Command    string `yaml:"command"`

	NodeName   string `yaml:"nodename"`
	DataDir    string `yaml:"datadir"`
	SysDataDir string `yaml:"sysdatadir"`

	// TLS material. Empty paths are derived from DataDir after loading.
	SSLKey          string `yaml:"ssl_key"`
	SSLCert         string `yaml:"ssl_cert"`
	SSLIntermediate string `yaml:"ssl_intermediate"`
	SSLDH           string `yaml:"ssl_dh"`
	CipherList      string `yaml:"cipher_list"`

	LogRequests   bool `yaml:"logreqs"`
	DebugMode     bool `yaml:"debugmode"`
	DebugToStdout bool `yaml:"debugtostdout"`

	Processes          int64 `yaml:"processes"`
	RequestsPerProcess int64 `yaml:"requests_per_process"`

	Transport       string  `yaml:"transport"`
	Proto           string  `yaml:"proto"`
	ListenIPv4      string  `yaml:"listen_ipv4"`
	ListenIPv6      *string `yaml:"listen_ipv6"`
	ListenPortHTTP  int64   `yaml:"listen_port_http"`
	ListenPortHTTPS int64   `yaml:"listen_port_https"`
	BaseHost        string  `yaml:"basehost"`
	BufSize         int64   `yaml:"bufsize"`

	// Upstream SOCKS proxy.
	SocksHost                   string  `yaml:"sockshost"`
	SocksPort                   int64   `yaml:"socksport"`
	SockMaxPersistentPerHost    int64   `yaml:"sockmaxpersistentperhost"`
	SockCachedConnectionTimeout int64   `yaml:"sockcachedconnectiontimeout"`
	SockRetryAutomatically      bool    `yaml:"sockretryautomatically"`
	DummyProxy                  *string `yaml:"dummyproxy"`

	Mode                         string            `yaml:"mode"`
	Onion                        *string           `yaml:"onion"`
	BlockHotlinking              bool              `yaml:"blockhotlinking"`
	BlockHotlinkingExts          []string          `yaml:"blockhotlinking_exts"`
	ExtraHTTPResponseHeaders     map[string]string `yaml:"extra_http_response_headers"`
	DisableDisclaimer            bool              `yaml:"disable_disclaimer"`
	DisableBanner                bool              `yaml:"disable_banner"`
	DisableTorRedirection        bool              `yaml:"disable_tor_redirection"`
	DisableGetTor                bool              `yaml:"disable_gettor"`
	AvoidRewritingVisibleContent bool              `yaml:"avoid_rewriting_visible_content"`
	Mirror                       []string          `yaml:"mirror"`

	// Mail notification.
	SMTPUser                string `yaml:"smtpuser"`
	SMTPPass                string `yaml:"smtppass"`
	SMTPMail                string `yaml:"smtpmail"`
	SMTPMailToExceptions    string `yaml:"smtpmailto_exceptions"`
	SMTPMailToNotifications string `yaml:"smtpmailto_notifications"`
	SMTPDomain              string `yaml:"smtpdomain"`
	SMTPPort                int64  `yaml:"smtpport"`
	SMTPSecurity            string `yaml:"smtpsecurity"`

	ExitNodeListRefresh              int64  `yaml:"exit_node_list_refresh"`
	AutomaticBlocklistUpdatesSource  string `yaml:"automatic_blocklist_updates_source"`
	AutomaticBlocklistUpdatesRefresh int64  `yaml:"automatic_blocklist_updates_refresh"`
	AutomaticBlocklistUpdatesMode    string `yaml:"automatic_blocklist_updates_mode"`
	PublishBlocklist                 bool   `yaml:"publish_blocklist"`

	// Extra holds file keys that have no typed field.
	Extra map[string]coerce.Value `yaml:",inline"`

	mu      sync.RWMutex
	private map[string]coerce.Value
	raw     *ini.File
}

// Defaults returns settings holding the compiled-in defaults overlaid with opts.
// The parser representation starts out empty.
func Defaults(opts Options) *Settings {
	s := &Settings{
		ConfigFile: opts.ConfigFile,
		PidFile:    opts.PidFile,
		UID:        opts.UID,
		GID:        opts.GID,
		NoDaemon:   opts.NoDaemon,
		RunDir:     opts.RunDir,
		Command:    opts.Command,

		NodeName:   "tor2web",
		DataDir:    "/home/tor2web",
		SysDataDir: "/usr/share/tor2web/data",
		CipherList: defaultCipherList,

		DebugMode:          true,
		DebugToStdout:      true,
		Processes:          1,
		RequestsPerProcess: 1000000,

		Transport:       "BOTH",
		ListenIPv4:      "127.0.0.1",
		ListenPortHTTP:  80,
		ListenPortHTTPS: 443,
		BaseHost:        "AUTO",
		BufSize:         4096,

		SocksHost:                   "127.0.0.1",
		SocksPort:                   9050,
		SockMaxPersistentPerHost:    5,
		SockCachedConnectionTimeout: 240,
		SockRetryAutomatically:      true,

		Mode:                "BLOCKLIST",
		BlockHotlinking:     true,
		BlockHotlinkingExts: []string{"jpg", "png", "gif"},
		Mirror:              []string{},

		SMTPUser:                "globaleaks",
		SMTPPass:                "globaleaks",
		SMTPMail:                "notification@demo.globaleaks.org",
		SMTPMailToExceptions:    "stackexception@lists.tor2web.org",
		SMTPMailToNotifications: "tor2web-abuse@lists.tor2web.org",
		SMTPDomain:              "mail.globaleaks.org",
		SMTPPort:                9267,
		SMTPSecurity:            "TLS",

		ExitNodeListRefresh:              600,
		AutomaticBlocklistUpdatesRefresh: 600,
		AutomaticBlocklistUpdatesMode:    "MERGE",

		Extra:   map[string]coerce.Value{},
		private: map[string]coerce.Value{},
		raw:     ini.Empty(iniLoadOptions),
	}
	s.Proto = protoFor(s.Transport)

	if dir := devDataDir(opts.Executable); dir != "" {
		s.SysDataDir = dir
	}

	return s
}

// Get returns the value stored under key and whether the key is known.
// Unknown keys yield (nil, false).
func (s *Settings) Get(key string) (coerce.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key)
}

// Set stores value under key. Keys starting with "_" are private: they are
// kept in memory only. Every other write is mirrored into the parser
// representation, which rejects keys that are neither typed settings nor
// present in the loaded file. Writes always land in the `main` section.
func (s *Settings) Set(key string, value coerce.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.HasPrefix(key, privatePrefix) {
		s.private[key] = value
		return nil
	}

	sec := s.raw.Section(sectionName)
	_, typed := fieldIndex[key]
	_, extra := s.Extra[key]
	if !typed && !extra && !sec.HasKey(key) {
		return &UnknownOptionError{Key: key}
	}

	if err := s.assign(key, value); err != nil {
		return err
	}
	sec.Key(key).SetValue(coerce.Format(value))
	return nil
}

// Validate checks the current values against the known-sensitive rules.
func (s *Settings) Validate() error {
	return Validate(s, SaneRules)
}

// WriteTo serializes the parser representation in INI form. Nothing is
// written to disk by this package.
func (s *Settings) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.raw.WriteTo(w)
}

// DumpYAML writes the effective settings as YAML.
func (s *Settings) DumpYAML(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Settings) get(key string) (coerce.Value, bool) {
	if strings.HasPrefix(key, privatePrefix) {
		v, ok := s.private[key]
		return v, ok
	}
	if _, ok := fieldIndex[key]; ok {
		return s.field(key), true
	}
	v, ok := s.Extra[key]
	return cloneValue(v), ok
}

func protoFor(transport string) string {
	if transport == "HTTP" {
		return "http://"
	}
	return "https://"
}

// devDataDir returns <dir of exe>/../data when it exists, so a source checkout
// serves its own bundled data.
func devDataDir(exe string) string {
	if exe == "" {
		return ""
	}
	dir, err := filepath.Abs(filepath.Join(filepath.Dir(exe), "..", "data"))
	if err != nil {
		return ""
	}
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}
