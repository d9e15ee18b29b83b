// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/bibmerge"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/bibmerge/app implements it.
type Interface interface {
	// Client returns a merge client configured from the loaded configuration.
	// Options passed here are applied last and override the configuration.
	Client(opts ...bibmerge.Option) (bibmerge.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
