package config

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/alecthomas/kingpin/v2"
	"github.com/caarlos0/env/v11"
)

const envPrefix = "TOR2WEB_"

// Options holds the launch options. Defaults live in the envDefault tags.
type Options struct {
	ConfigFile string `env:"CONFIGFILE" envDefault:"/etc/tor2web.conf"`
	PidFile    string `env:"PIDFILE" envDefault:"/var/run/tor2web/t2w.pid"`
	UID        string `env:"UID"`
	GID        string `env:"GID"`
	NoDaemon   bool   `env:"NODAEMON"`
	RunDir     string `env:"RUNDIR" envDefault:"/var/run/tor2web/"`
	Command    string `env:"COMMAND" envDefault:"start"`

	// Executable is the path the process was started from. It is used to
	// detect a development checkout with a sibling data directory.
	Executable string
}

// ParseOptions registers the launch flags on app and parses args.
// Precedence: flags > TOR2WEB_* environment variables > defaults. The uid,
// gid and nodaemon flags win even when given empty (--uid=) or false
// (--no-nodaemon); the remaining flags fall back when given empty.
// A nil environ reads the process environment.
func ParseOptions(app *kingpin.Application, args []string, environ map[string]string) (Options, error) {
	var flags Options
	var set struct{ uid, gid, noDaemon bool }
	app.Flag("configfile", "Path to the configuration file").Short('c').PlaceHolder("/etc/tor2web.conf").StringVar(&flags.ConfigFile)
	app.Flag("pidfile", "Path to the pid file").Short('p').StringVar(&flags.PidFile)
	app.Flag("uid", "User to drop privileges to (empty keeps the current user)").Short('u').IsSetByUser(&set.uid).StringVar(&flags.UID)
	app.Flag("gid", "Group to drop privileges to (empty keeps the current group)").Short('g').IsSetByUser(&set.gid).StringVar(&flags.GID)
	app.Flag("nodaemon", "Stay in the foreground").Short('n').IsSetByUser(&set.noDaemon).BoolVar(&flags.NoDaemon)
	app.Flag("rundir", "Runtime directory").Short('d').StringVar(&flags.RunDir)
	app.Flag("command", "Command verb (start, dumpconf, dumpini, ...)").Short('x').StringVar(&flags.Command)

	if _, err := app.Parse(args); err != nil {
		return Options{}, fmt.Errorf("parse flags: %w", err)
	}

	var fromEnv Options
	envOpts := env.Options{Prefix: envPrefix}
	if environ != nil {
		envOpts.Environment = environ
	}
	if err := env.ParseWithOptions(&fromEnv, envOpts); err != nil {
		return Options{}, fmt.Errorf("parse environment: %w", err)
	}

	given := flags
	if err := mergo.Merge(&flags, fromEnv); err != nil {
		return Options{}, fmt.Errorf("merge options: %w", err)
	}

	// Merge fills zero values from the environment; put back the ones given
	// on the command line. Paths and the command verb have no meaningful
	// empty value, so an empty flag there still falls back.
	if set.uid {
		flags.UID = given.UID
	}
	if set.gid {
		flags.GID = given.GID
	}
	if set.noDaemon {
		flags.NoDaemon = given.NoDaemon
	}

	return flags, nil
}

// DefaultOptions returns the options used when nothing is supplied.
func DefaultOptions() Options {
	var opts Options
	// Only envDefault tags are consulted with an empty environment.
	_ = env.ParseWithOptions(&opts, env.Options{Prefix: envPrefix, Environment: map[string]string{}})
	return opts
}
