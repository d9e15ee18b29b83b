package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/bibmerge/pkg/constants"
)

// Config describes a logger.
type Config struct {
	// Level is a level name understood by ParseLevel.
	Level string

	// Format is json, console or auto. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path to append to.
	Output string

	NoColor bool
}

// DefaultConfig logs info and above to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger from cfg and sets zerolog's global
// level to match. Debug and trace loggers record the caller. A nil cfg means
// DefaultConfig.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, _ := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	out, terminal := sink(cfg.Output)
	if console(cfg.Format, terminal) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
	}

	c := zerolog.New(out).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		c = c.Caller()
	}
	return c.Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to
// info and report false.
func ParseLevel(name string) (zerolog.Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "info":
		return zerolog.InfoLevel, true
	case "warning":
		return zerolog.WarnLevel, true
	case "off", "none":
		return zerolog.Disabled, true
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

// sink opens the destination named by output and reports whether it is a
// terminal. A file that cannot be opened falls back to stderr.
func sink(output string) (io.Writer, bool) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, isTerminal(os.Stderr)
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout)
	case "discard", "none":
		return io.Discard, false
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr, isTerminal(os.Stderr)
	}
	return f, false
}

func console(format string, terminal bool) bool {
	switch strings.ToLower(format) {
	case "console", "pretty", "text":
		return true
	case "", "auto":
		return terminal
	default:
		return false
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
