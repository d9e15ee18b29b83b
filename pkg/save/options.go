// Package save configures where a merge result is written.
package save

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/agentstation/bibmerge/pkg/constants"
)

// Options is the configuration for save.
type Options struct {
	path             string
	duplicatesPath   string
	writer           io.Writer
	duplicatesWriter io.Writer
}

// Path returns the primary output path.
func (s *Options) Path() string {
	return s.path
}

// DuplicatesPath returns the duplicates output path. Unless set explicitly
// it is derived from Path with DuplicatesPath.
func (s *Options) DuplicatesPath() string {
	if s.duplicatesPath != "" || s.path == "" {
		return s.duplicatesPath
	}
	return DuplicatesPath(s.path)
}

// Writer returns the writer for the primary output.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// DuplicatesWriter returns the writer for the duplicates output.
func (s *Options) DuplicatesWriter() io.Writer {
	return s.duplicatesWriter
}

// UsesWriters reports whether output goes to writers instead of files.
func (s *Options) UsesWriters() bool {
	return s.writer != nil
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithPath for filesystem saves.
func WithPath(path string) Option {
	return func(s *Options) {
		s.path = path
	}
}

// WithDuplicatesPath overrides the derived duplicates path.
func WithDuplicatesPath(path string) Option {
	return func(s *Options) {
		s.duplicatesPath = path
	}
}

// WithWriters for custom outputs. A nil duplicates writer discards duplicates.
func WithWriters(primary, duplicates io.Writer) Option {
	return func(s *Options) {
		s.writer = primary
		s.duplicatesWriter = duplicates
	}
}

// DuplicatesPath inserts the duplicates suffix before the final extension of
// path: "out/all.bib" becomes "out/all_duplicates.bib" and "merged" becomes
// "merged_duplicates".
func DuplicatesPath(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	if ext == file {
		// dotfile such as ".bib" has no stem to suffix
		ext = ""
	}
	stem := strings.TrimSuffix(file, ext)
	return dir + stem + constants.DuplicatesSuffix + ext
}
