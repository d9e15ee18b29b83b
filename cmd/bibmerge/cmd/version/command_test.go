package version_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/cmd/bibmerge/cmd/version"
	"github.com/agentstation/bibmerge/internal/appcontext"
)

func TestVersionCommand(t *testing.T) {
	app := &appcontext.Mock{VersionFunc: func() string { return "v0.3.1" }}

	cmd := version.NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "bibmerge version v0.3.1")
	assert.Contains(t, out.String(), "commit: unknown")
	assert.Contains(t, out.String(), "platform: ")
}
