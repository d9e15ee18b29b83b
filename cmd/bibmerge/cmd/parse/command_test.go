package parse_test

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/cmd/bibmerge/cmd/parse"
	"github.com/agentstation/bibmerge/internal/appcontext"
	"github.com/agentstation/bibmerge/pkg/logging"
)

func TestParseCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "refs/a.bib", []byte("@article{Knuth1984, title={TeX}}\n@misc{Lamport1994}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "refs/bad.bib", []byte("@misc{, x=1}\n"), 0o644))

	app := &appcontext.Mock{
		ClientFunc: func(opts ...bibmerge.Option) (bibmerge.Client, error) {
			base := []bibmerge.Option{bibmerge.WithFS(fs), bibmerge.WithLogger(logging.NewNopLogger())}
			return bibmerge.New(append(base, opts...)...)
		},
		OutputFormatFunc: func() string { return "json" },
	}

	t.Run("skip invalid", func(t *testing.T) {
		cmd := parse.NewCommand(app)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"refs", "--skip-invalid"})
		require.NoError(t, cmd.Execute())

		assert.Contains(t, out.String(), `"key": "Knuth1984"`)
		assert.Contains(t, out.String(), `"key": "Lamport1994"`)
		assert.NotContains(t, out.String(), "bad.bib")
	})

	t.Run("abort", func(t *testing.T) {
		cmd := parse.NewCommand(app)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"refs"})
		assert.Error(t, cmd.Execute())
	})
}
