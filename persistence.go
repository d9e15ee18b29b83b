package bibmerge

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/agentstation/bibmerge/pkg/bibtex"
	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/errors"
	"github.com/agentstation/bibmerge/pkg/logging"
	"github.com/agentstation/bibmerge/pkg/records"
	"github.com/agentstation/bibmerge/pkg/save"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles merge result persistence operations.
type Persistence interface {
	// Save writes the kept and duplicate records of result
	Save(ctx context.Context, result *Result, opts ...save.Option) error
}

// output is one file waiting to be written.
type output struct {
	path    string
	records []records.Record

	temp   string // staged rendering, empty once renamed into place
	backup string // previous contents of path, moved aside while committing
	placed bool
}

// Save writes the kept records to the primary output and the duplicates to
// the duplicates output. Both files are written to temporary files in their
// target directories and renamed into place. If any step fails the targets
// are restored to what they held before the call.
func (c *client) Save(ctx context.Context, result *Result, opts ...save.Option) error {
	if result == nil || result.State == nil {
		return errors.NewValidationError("result", nil, "nothing to save")
	}
	ctx = c.withLogger(ctx)
	options := save.Defaults().Apply(opts...)

	kept := result.State.KeptRecords()
	duplicates := result.State.DuplicateRecords()

	if options.UsesWriters() {
		return saveToWriters(options, kept, duplicates)
	}

	if options.Path() == "" {
		return errors.NewValidationError("output", "", "output path is required")
	}
	if filepath.Clean(options.Path()) == filepath.Clean(options.DuplicatesPath()) {
		return errors.NewValidationError("output", options.Path(), "primary and duplicates outputs must differ")
	}

	outputs := []*output{
		{path: options.Path(), records: kept},
		{path: options.DuplicatesPath(), records: duplicates},
	}
	if err := c.commit(ctx, outputs); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().
		Str("output", options.Path()).
		Str("duplicates", options.DuplicatesPath()).
		Int("kept", result.State.KeptCount()).
		Int("duplicate_records", result.State.DuplicateCount()).
		Msg("Saved merge result")
	return nil
}

// commit stages every output in a temporary file and then moves them all
// into place, keeping any file they replace until every rename succeeded.
func (c *client) commit(ctx context.Context, outputs []*output) error {
	fs := c.options.fs
	logger := logging.FromContext(ctx)

	for _, out := range outputs {
		temp, err := stage(fs, out.path, out.records)
		if err != nil {
			c.rollback(ctx, outputs)
			return err
		}
		out.temp = temp
	}

	if err := ctx.Err(); err != nil {
		c.rollback(ctx, outputs)
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	for _, out := range outputs {
		if err := place(fs, out); err != nil {
			c.rollback(ctx, outputs)
			return err
		}
		logger.Debug().Str("file", out.path).Int("records", len(out.records)).Msg("Wrote output")
	}

	for _, out := range outputs {
		if out.backup == "" {
			continue
		}
		if err := fs.Remove(out.backup); err != nil {
			logger.Debug().Err(err).Str("file", out.backup).Msg("Failed to remove previous output")
		}
	}
	return nil
}

// place moves any existing target aside and renames the staged file over it.
func place(fs afero.Fs, out *output) error {
	exists, err := afero.Exists(fs, out.path)
	if err != nil {
		return errors.WrapIO("stat", out.path, err)
	}
	if exists {
		backup, err := reserve(fs, filepath.Dir(out.path), constants.BackupFilePattern)
		if err != nil {
			return err
		}
		if err := fs.Rename(out.path, backup); err != nil {
			_ = fs.Remove(backup)
			return errors.WrapIO("rename", out.path, err)
		}
		out.backup = backup
	}

	if err := fs.Rename(out.temp, out.path); err != nil {
		return errors.WrapIO("rename", out.path, err)
	}
	out.temp = ""
	out.placed = true
	return nil
}

// rollback undoes commit in reverse order: new files are removed, previous
// contents are renamed back and staged files are discarded.
func (c *client) rollback(ctx context.Context, outputs []*output) {
	fs := c.options.fs
	logger := logging.FromContext(ctx)

	for i := len(outputs) - 1; i >= 0; i-- {
		out := outputs[i]
		if out.placed {
			if err := fs.Remove(out.path); err != nil {
				logger.Warn().Err(err).Str("file", out.path).Msg("Failed to roll back output")
			}
			out.placed = false
		}
		if out.backup != "" {
			if err := fs.Rename(out.backup, out.path); err != nil {
				logger.Error().Err(err).
					Str("file", out.path).
					Str("backup", out.backup).
					Msg("Failed to restore previous output")
			} else {
				out.backup = ""
			}
		}
		if out.temp != "" {
			if err := fs.Remove(out.temp); err != nil {
				logger.Debug().Err(err).Str("file", out.temp).Msg("Failed to remove temporary file")
			}
			out.temp = ""
		}
	}
}

// reserve creates an empty file in dir matching pattern and returns its name.
func reserve(fs afero.Fs, dir, pattern string) (string, error) {
	f, err := afero.TempFile(fs, dir, pattern)
	if err != nil {
		return "", errors.WrapIO("create", dir, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = fs.Remove(name)
		return "", errors.WrapIO("close", name, err)
	}
	return name, nil
}

// stage writes rs to a new temporary file beside path and returns its name.
func stage(fs afero.Fs, path string, rs []records.Record) (string, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("mkdir", dir, err)
	}

	f, err := afero.TempFile(fs, dir, constants.TempFilePattern)
	if err != nil {
		return "", errors.WrapIO("create", dir, err)
	}
	name := f.Name()

	if err := bibtex.NewWriter(f).WriteAll(rs); err != nil {
		_ = f.Close()
		_ = fs.Remove(name)
		return "", errors.WrapIO("write", name, err)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(name)
		return "", errors.WrapIO("close", name, err)
	}
	if err := fs.Chmod(name, constants.FilePermissions); err != nil {
		_ = fs.Remove(name)
		return "", errors.WrapIO("chmod", name, err)
	}
	return name, nil
}

// saveToWriters serializes both record sets to the configured writers.
func saveToWriters(options save.Options, kept, duplicates []records.Record) error {
	if err := bibtex.NewWriter(options.Writer()).WriteAll(kept); err != nil {
		return errors.WrapIO("write", "primary output", err)
	}
	w := options.DuplicatesWriter()
	if w == nil {
		w = io.Discard
	}
	if err := bibtex.NewWriter(w).WriteAll(duplicates); err != nil {
		return errors.WrapIO("write", "duplicates output", err)
	}
	return nil
}
