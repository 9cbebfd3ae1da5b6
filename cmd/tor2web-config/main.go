package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/tor2web/internal/application"
	"github.com/eugenenazirov/tor2web/internal/config"
	"github.com/eugenenazirov/tor2web/internal/logging"
)

func main() {
	os.Exit(run(os.Args, nil, os.Stdout))
}

// run loads the settings and executes the command verb. It returns the
// process exit code. Config files that cannot be opened exit with 1; any
// other configuration failure panics.
func run(argv []string, environ map[string]string, stdout io.Writer) int {
	kingpinApp := kingpin.New("tor2web-config", "Tor2web settings loader - validates the relay configuration and runs the command verb")

	opts, err := config.ParseOptions(kingpinApp, argv[1:], environ)
	if err != nil {
		fmt.Fprintf(stdout, "tor2web: %v\n", err)
		return 2
	}
	opts.Executable = argv[0]

	settings, err := config.Load(opts)
	if err != nil {
		var accessErr *config.StartupAccessError
		if errors.As(err, &accessErr) {
			fmt.Fprintf(stdout, "Tor2web Startup Failure: %v\n", err)
			return 1
		}
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(logging.Options{
		Debug:  settings.DebugMode,
		Stdout: settings.DebugToStdout,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Run(stdout); err != nil {
		logger.Error("command failed", zap.String("command", settings.Command), zap.Error(err))
		return 1
	}
	return 0
}
