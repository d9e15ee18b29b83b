package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/pkg/logging"
)

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	rec := logging.NewRecorder(t)
	logging.SetDefault(rec.Logger.Level(zerolog.InfoLevel))

	logging.Default().Debug().Msg("debug message")
	logging.Default().Info().Msg("info message")

	rec.AssertNotContains(t, "debug message")
	rec.AssertContains(t, "info message")
	assert.Len(t, rec.Lines(), 1)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  zerolog.Level
		known bool
	}{
		{"", zerolog.InfoLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{" TRACE ", zerolog.TraceLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, known := logging.ParseLevel(tt.name)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	t.Run("defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bibmerge.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
		})
		logger.Info().Str("run", "test").Msg("merged files")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "merged files")
		assert.Contains(t, string(content), `"run":"test"`)
		assert.Contains(t, string(content), `"caller":`)
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("discard output", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Output: "discard"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "loud", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestContextLogger(t *testing.T) {
	rec := logging.NewRecorder(t)

	ctx := logging.WithLogger(context.Background(), rec.Logger)
	ctx = logging.WithRoot(ctx, "refs")
	ctx = logging.WithFile(ctx, "refs/a.bib")
	ctx = logging.WithOperation(ctx, "parse")

	logging.FromContext(ctx).Info().Msg("parsed")

	rec.AssertContains(t, `"root":"refs"`)
	rec.AssertContains(t, `"file":"refs/a.bib"`)
	rec.AssertContains(t, `"operation":"parse"`)
	rec.AssertContains(t, "parsed")
	assert.Len(t, rec.Lines(), 1)
}

func TestFromContextDefaults(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))

	ctx := logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.FromContext(ctx))
}

func TestRecorderConcurrentWrites(t *testing.T) {
	rec := logging.NewRecorder(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Info().Int("worker", i).Msg("parsed")
		}()
	}
	wg.Wait()

	assert.Len(t, rec.Lines(), 8)
}

func TestSilence(t *testing.T) {
	logging.Silence(t)
	assert.Equal(t, zerolog.Disabled, logging.Default().GetLevel())
}
