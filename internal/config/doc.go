// Package config builds the relay settings for one process start. Values are
// layered: compiled-in defaults, then launch options (flags > environment),
// then the `main` section of the INI config file. The merged result is
// validated once before it is handed to the rest of the application.
package config
