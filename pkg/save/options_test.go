package save_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/bibmerge/pkg/save"
)

func TestDuplicatesPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"all.bib", "all_duplicates.bib"},
		{"out/all.bib", "out/all_duplicates.bib"},
		{"refs.v2.bib", "refs.v2_duplicates.bib"},
		{"merged", "merged_duplicates"},
		{"dir.d/merged", "dir.d/merged_duplicates"},
		{".bib", ".bib_duplicates"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, save.DuplicatesPath(tt.in))
		})
	}
}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := save.Defaults()
		assert.Empty(t, opts.Path())
		assert.Empty(t, opts.DuplicatesPath())
		assert.False(t, opts.UsesWriters())
	})

	t.Run("derived duplicates path", func(t *testing.T) {
		opts := save.Defaults().Apply(save.WithPath("out/all.bib"))
		assert.Equal(t, "out/all.bib", opts.Path())
		assert.Equal(t, "out/all_duplicates.bib", opts.DuplicatesPath())
	})

	t.Run("explicit duplicates path", func(t *testing.T) {
		opts := save.Defaults().Apply(
			save.WithPath("out/all.bib"),
			save.WithDuplicatesPath("out/collisions.bib"),
		)
		assert.Equal(t, "out/collisions.bib", opts.DuplicatesPath())
	})

	t.Run("writers", func(t *testing.T) {
		var primary, dups bytes.Buffer
		opts := save.Defaults().Apply(save.WithWriters(&primary, &dups))
		assert.True(t, opts.UsesWriters())
		assert.Same(t, &primary, opts.Writer())
		assert.Same(t, &dups, opts.DuplicatesWriter())
	})
}
