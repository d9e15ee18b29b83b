package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/pkg/errors"
)

// isolate points HOME at an empty directory so no user config is read.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ".bib", config.Extension)
	assert.True(t, config.Recursive)
	assert.False(t, config.SkipInvalid)
	assert.Equal(t, 0, config.Jobs)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BIBMERGE_SKIP_INVALID", "true")
	t.Setenv("BIBMERGE_JOBS", "3")
	t.Setenv("BIBMERGE_RECURSIVE", "false")
	t.Setenv("BIBMERGE_FORMAT", "json")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, config.SkipInvalid)
	assert.Equal(t, 3, config.Jobs)
	assert.False(t, config.Recursive)
	assert.Equal(t, "json", config.Format)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bibmerge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extension: .bibtex\nrecursive: false\nlog_level: debug\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ".bibtex", config.Extension)
	assert.False(t, config.Recursive)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, path, config.ConfigFile)
}

func TestLoadConfigMissingFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var configErr *errors.ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "table"}
	config.UpdateFromFlags(true, false, true, "", "warn")

	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "table", config.Format)
	assert.Equal(t, "warn", config.LogLevel)
}
