package bibtex_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/pkg/bibtex"
	"github.com/agentstation/bibmerge/pkg/records"
)

func TestSerialize(t *testing.T) {
	r := records.Record{Type: "article", Key: "X", Body: "{X, abstract = {Contains {nested} braces}}"}
	assert.Equal(t, "@article{X, abstract = {Contains {nested} braces}}\n", bibtex.Serialize(r))
}

func TestSerializeRoundTrip(t *testing.T) {
	path := filepath.Join("testdata", "scholar.bib")
	text, err := os.ReadFile(path)
	require.NoError(t, err)

	parser := bibtex.NewParser()
	keys := bibtex.NewKeyExtractor()

	set, err := parser.Parse(path, text)
	require.NoError(t, err)

	for _, r := range set.Records {
		out := bibtex.Serialize(r)

		reparsed, err := parser.Parse("roundtrip.bib", []byte(out))
		require.NoError(t, err)
		require.Equal(t, 1, reparsed.Len())
		assert.Equal(t, r.Key, reparsed.Records[0].Key)
		assert.Equal(t, r.Type, reparsed.Records[0].Type)
		assert.Equal(t, r.Body, reparsed.Records[0].Body)

		key, err := keys.Extract(reparsed.Records[0].Body)
		require.NoError(t, err)
		assert.Equal(t, r.Key, key)
	}
}

func TestWriter(t *testing.T) {
	rs := []records.Record{
		{Type: "misc", Key: "A", Body: "{A}"},
		{Type: "book", Key: "B", Body: "{B,\n  title = {T}\n}"},
	}

	var buf bytes.Buffer
	w := bibtex.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rs))

	assert.Equal(t, "@misc{A}\n@book{B,\n  title = {T}\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, bibtex.NewWriter(&buf).WriteAll(nil))
	assert.Empty(t, buf.String())
}
