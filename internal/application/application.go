package application

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eugenenazirov/tor2web/internal/config"
)

const (
	// CommandDumpConf prints the effective settings as YAML.
	CommandDumpConf = "dumpconf"
	// CommandDumpINI prints the parser representation of the settings.
	CommandDumpINI = "dumpini"
)

// App encapsulates the loaded settings and the logger.
type App struct {
	settings *config.Settings
	logger   *zap.Logger
}

// New initializes the application from validated settings.
func New(settings *config.Settings, logger *zap.Logger) (*App, error) {
	if settings == nil {
		return nil, errors.New("settings are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &App{
		settings: settings,
		logger:   logger,
	}, nil
}

// Run executes the command verb. Verbs other than the dump commands belong to
// the relay runtime; for those the settings are only summarised in the log.
func (a *App) Run(w io.Writer) error {
	switch a.settings.Command {
	case CommandDumpConf:
		if err := a.settings.DumpYAML(w); err != nil {
			return fmt.Errorf("dump settings: %w", err)
		}
	case CommandDumpINI:
		if _, err := a.settings.WriteTo(w); err != nil {
			return fmt.Errorf("dump ini: %w", err)
		}
	default:
		a.logSummary()
	}
	return nil
}

// Settings returns the settings instance handed to dependent components.
func (a *App) Settings() *config.Settings {
	return a.settings
}

func (a *App) logSummary() {
	s := a.settings
	a.logger.Info("settings loaded",
		zap.String("configfile", s.ConfigFile),
		zap.String("command", s.Command),
		zap.String("transport", s.Transport),
		zap.String("listen_ipv4", s.ListenIPv4),
		zap.Int64("listen_port_http", s.ListenPortHTTP),
		zap.Int64("listen_port_https", s.ListenPortHTTPS),
		zap.String("socks", fmt.Sprintf("%s:%d", s.SocksHost, s.SocksPort)),
		zap.String("mode", s.Mode),
		zap.Bool("nodaemon", s.NoDaemon),
	)
	a.logger.Debug("data locations",
		zap.String("datadir", s.DataDir),
		zap.String("sysdatadir", s.SysDataDir),
		zap.String("templates", s.DataFilePath("templates")),
		zap.String("ssl_key", s.SSLKey),
		zap.String("ssl_cert", s.SSLCert),
		zap.String("ssl_intermediate", s.SSLIntermediate),
		zap.String("ssl_dh", s.SSLDH),
	)
}
