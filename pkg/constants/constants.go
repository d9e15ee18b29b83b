// Package constants provides shared constants used throughout the bibmerge codebase.
// This includes file permissions, naming conventions and limits that
// should be consistent across the application.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Naming constants
const (
	// DefaultExtension is the file extension collected by a directory scan
	DefaultExtension = ".bib"

	// DuplicatesSuffix is inserted before the output extension to name the duplicates file
	DuplicatesSuffix = "_duplicates"

	// DisambiguationSeparator joins a colliding key and its numeric suffix
	DisambiguationSeparator = "_"

	// FormatBibTeX names the record grammar in parse errors
	FormatBibTeX = "bibtex"

	// TempFilePattern is the pattern for staged output files
	TempFilePattern = ".bibmerge-*.tmp"

	// BackupFilePattern is the pattern for outputs moved aside while committing
	BackupFilePattern = ".bibmerge-*.bak"
)

// Limit constants
const (
	// MaxConcurrentParsers caps the number of files parsed at once
	MaxConcurrentParsers = 64

	// WriteBufferSize is the default buffer size for write operations
	WriteBufferSize = 4096
)
