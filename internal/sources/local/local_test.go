package local_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/internal/sources/local"
	"github.com/agentstation/bibmerge/pkg/errors"
)

func newFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func testFS(t *testing.T) afero.Fs {
	return newFS(t, map[string]string{
		"refs/b.bib":          "@misc{B}",
		"refs/a.bib":          "@misc{A}",
		"refs/notes.txt":      "not a bib",
		"refs/UPPER.BIB":      "@misc{U}",
		"refs/sub/c.bib":      "@misc{C}",
		"refs/sub/deep/d.bib": "@misc{D}",
		"other/e.bib":         "@misc{E}",
	})
}

func TestScanRecursive(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)))

	files, err := src.Scan(context.Background(), "refs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("refs", "UPPER.BIB"),
		filepath.Join("refs", "a.bib"),
		filepath.Join("refs", "b.bib"),
		filepath.Join("refs", "sub", "c.bib"),
		filepath.Join("refs", "sub", "deep", "d.bib"),
	}, files)
}

func TestScanTopLevelOnly(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)), local.WithRecursive(false))

	files, err := src.Scan(context.Background(), "refs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("refs", "UPPER.BIB"),
		filepath.Join("refs", "a.bib"),
		filepath.Join("refs", "b.bib"),
	}, files)
}

func TestScanRootsInGivenOrder(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)), local.WithRecursive(false))

	files, err := src.Scan(context.Background(), "other", "refs/b.bib", "refs/notes.txt", "refs/b.bib")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("other", "e.bib"),
		filepath.Join("refs", "b.bib"),
		filepath.Join("refs", "notes.txt"),
	}, files)
}

func TestScanExcluding(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)))

	files, err := src.ScanExcluding(context.Background(),
		[]string{"refs/a.bib", "./refs/sub/../b.bib", "other/e.bib", ""},
		"refs", "other/e.bib")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("refs", "UPPER.BIB"),
		filepath.Join("refs", "sub", "c.bib"),
		filepath.Join("refs", "sub", "deep", "d.bib"),
	}, files)
}

func TestScanExtension(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)), local.WithExtension("txt"))
	assert.Equal(t, ".txt", src.Extension())

	files, err := src.Scan(context.Background(), "refs")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("refs", "notes.txt")}, files)
}

func TestScanMissingRoot(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)))

	_, err := src.Scan(context.Background(), "nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "nowhere")
}

func TestScanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := local.New(local.WithFS(testFS(t))).Scan(ctx, "refs")
	assert.True(t, errors.IsCanceled(err))
}

func TestRead(t *testing.T) {
	src := local.New(local.WithFS(testFS(t)))

	data, err := src.Read("refs/a.bib")
	require.NoError(t, err)
	assert.Equal(t, "@misc{A}", string(data))

	_, err = src.Read("refs/missing.bib")
	assert.True(t, errors.IsIO(err))
}
