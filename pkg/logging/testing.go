package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// Recorder is a logger that keeps its JSON output in memory. Writes are
// serialized so it can be shared by concurrent parsers.
type Recorder struct {
	*zerolog.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecorder returns a trace level Recorder and lowers zerolog's global
// level until the test ends.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()

	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	r := &Recorder{}
	logger := zerolog.New(r).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	r.Logger = &logger
	return r
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Output returns everything logged so far.
func (r *Recorder) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Lines returns one entry per logged event.
func (r *Recorder) Lines() []string {
	out := strings.TrimSpace(r.Output())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AssertContains fails t unless the output contains substr.
func (r *Recorder) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if out := r.Output(); !strings.Contains(out, substr) {
		t.Errorf("log output does not contain %q\noutput:\n%s", substr, out)
	}
}

// AssertNotContains fails t if the output contains substr.
func (r *Recorder) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if out := r.Output(); strings.Contains(out, substr) {
		t.Errorf("log output should not contain %q\noutput:\n%s", substr, out)
	}
}

// Silence discards the default logger's output until the test ends.
func Silence(t testing.TB) {
	t.Helper()

	previous := *Default()
	SetDefault(zerolog.Nop())
	t.Cleanup(func() { SetDefault(previous) })
}
