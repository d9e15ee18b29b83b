// Package app provides the application context and dependency management
// for the bibmerge CLI. It centralizes configuration, logging and the
// construction of merge clients.
package app

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/internal/appcontext"
	"github.com/agentstation/bibmerge/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the bibmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// fs is handed to every client; tests swap in a memory filesystem
	fs afero.Fs
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment, .env files and the default
// config file locations.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns a new merge client built from the configuration. The
// given options are applied after the configured ones.
func (a *App) Client(opts ...bibmerge.Option) (bibmerge.Client, error) {
	base := []bibmerge.Option{
		bibmerge.WithFS(a.fs),
		bibmerge.WithLogger(a.logger),
		bibmerge.WithExtension(a.config.Extension),
		bibmerge.WithRecursive(a.config.Recursive),
		bibmerge.WithSkipInvalid(a.config.SkipInvalid),
	}
	if a.config.Jobs > 0 {
		base = append(base, bibmerge.WithConcurrency(a.config.Jobs))
	}

	client, err := bibmerge.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("client", "invalid merge options", err)
	}
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "nil configuration", nil)
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFS sets the filesystem clients read from and write to.
func WithFS(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}
