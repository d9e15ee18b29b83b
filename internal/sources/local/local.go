// Package local discovers bibliography files on a filesystem.
package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/errors"
	"github.com/agentstation/bibmerge/pkg/logging"
)

// Source walks roots for files carrying a given extension.
type Source struct {
	fs        afero.Fs
	extension string
	recursive bool
}

// New creates a new local source. By default it walks the OS filesystem
// recursively for ".bib" files.
func New(opts ...Option) *Source {
	s := &Source{
		fs:        afero.NewOsFs(),
		extension: constants.DefaultExtension,
		recursive: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a local source.
type Option func(*Source)

// WithFS sets the filesystem to walk.
func WithFS(fs afero.Fs) Option {
	return func(s *Source) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithExtension sets the extension files must carry. The leading dot is
// optional and matching ignores case.
func WithExtension(ext string) Option {
	return func(s *Source) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extension = ext
	}
}

// WithRecursive sets whether directories are walked below their top level.
func WithRecursive(recursive bool) Option {
	return func(s *Source) {
		s.recursive = recursive
	}
}

// Extension returns the extension files are matched against.
func (s *Source) Extension() string {
	return s.extension
}

// Matches reports whether path carries the source's extension.
func (s *Source) Matches(path string) bool {
	return strings.EqualFold(filepath.Ext(path), s.extension)
}

// Scan returns the files found under roots, root by root, each directory in
// lexical order. A root naming a file is returned as is, whatever its
// extension. A path reached twice is returned once, at its first position.
func (s *Source) Scan(ctx context.Context, roots ...string) ([]string, error) {
	return s.ScanExcluding(ctx, nil, roots...)
}

// ScanExcluding is Scan with the files named by exclude left out, whether
// they are reached by a walk or given as roots. Paths are compared in
// absolute form.
func (s *Source) ScanExcluding(ctx context.Context, exclude []string, roots ...string) ([]string, error) {
	var (
		files   []string
		seen    = make(map[string]bool)
		skipped = make(map[string]bool, len(exclude))
	)
	for _, path := range exclude {
		if path != "" {
			skipped[absolute(path)] = true
		}
	}
	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		if skipped[absolute(clean)] {
			logging.FromContext(ctx).Debug().Str("file", clean).Msg("Excluding output file from scan")
			return
		}
		files = append(files, clean)
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, errors.ErrCanceled
		}
		logger := logging.FromContext(logging.WithRoot(ctx, root))

		info, err := s.fs.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapIO("stat", root, errors.NewNotFoundError("root", root))
			}
			return nil, errors.WrapIO("stat", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		before := len(files)
		err = afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return errors.WrapIO("walk", path, err)
			}
			if err := ctx.Err(); err != nil {
				return errors.ErrCanceled
			}
			if info.IsDir() {
				if path != root && !s.recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if info.Mode().IsRegular() && s.Matches(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Int("files", len(files)-before).
			Bool("recursive", s.recursive).
			Msg("Scanned root")
	}
	return files, nil
}

// absolute returns path made absolute, or cleaned when that fails.
func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Read returns the full contents of path.
func (s *Source) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}
