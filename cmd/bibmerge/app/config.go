package app

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/bibmerge/pkg/constants"
	pkgerrors "github.com/agentstation/bibmerge/pkg/errors"
)

// EnvPrefix prefixes every environment variable bibmerge reads.
const EnvPrefix = "BIBMERGE"

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Command-line flags override it.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the config file that was read, if any.
	ConfigFile string

	// Merge configuration
	Extension   string
	Recursive   bool
	SkipInvalid bool
	Jobs        int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Environment variables (BIBMERGE_*)
//  2. .env.local, then .env
//  3. Config file: configFile if given, else .bibmerge.yaml in $HOME or "."
//  4. Defaults
//
// Command-line flags are applied afterwards by the root command.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, pkgerrors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".bibmerge")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, pkgerrors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Extension:   v.GetString("extension"),
		Recursive:   v.GetBool("recursive"),
		SkipInvalid: v.GetBool("skip_invalid"),
		Jobs:        v.GetInt("jobs"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

// setDefaults registers every key so AutomaticEnv can find it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", os.Getenv("NO_COLOR") != "")
	v.SetDefault("format", "")
	v.SetDefault("extension", constants.DefaultExtension)
	v.SetDefault("recursive", true)
	v.SetDefault("skip_invalid", false)
	v.SetDefault("jobs", 0)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values take
// precedence over the config file and environment.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is read first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
