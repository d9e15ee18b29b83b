package bibmerge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/bibmerge/pkg/errors"
	"github.com/agentstation/bibmerge/pkg/logging"
	"github.com/agentstation/bibmerge/pkg/merge"
	"github.com/agentstation/bibmerge/pkg/records"
	"github.com/agentstation/bibmerge/pkg/save"
)

// Merger scans, parses and merges bibliography files.
type Merger interface {
	// Parse scans roots and parses every file found, without merging
	Parse(ctx context.Context, roots ...string) (*ParseResult, error)

	// Merge scans roots and folds their records into a merge state
	Merge(ctx context.Context, roots ...string) (*Result, error)

	// Run merges roots and saves the result as configured by opts
	Run(ctx context.Context, roots []string, opts ...save.Option) (*Result, error)
}

// SkippedFile is a file left out of a run because its content was invalid.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
	Err    error  `json:"-" yaml:"-"`
}

// ParseResult holds the parsed sets of a scan in scan order.
type ParseResult struct {
	Sets    []records.Set `json:"sets" yaml:"sets"`
	Skipped []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Files returns the paths of the parsed files in scan order.
func (p *ParseResult) Files() []string {
	files := make([]string, 0, len(p.Sets))
	for _, set := range p.Sets {
		files = append(files, set.Source)
	}
	return files
}

// Result is the outcome of a merge.
type Result struct {
	State   *merge.State
	Files   []string
	Skipped []SkippedFile

	// Shadowed lists kept keys equal to an earlier duplicate name.
	Shadowed []string
}

// Stats summarizes a result.
type Stats struct {
	Files      int `json:"files" yaml:"files"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Records    int `json:"records" yaml:"records"`
	Kept       int `json:"kept" yaml:"kept"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
}

// Stats returns the counts of r.
func (r *Result) Stats() Stats {
	return Stats{
		Files:      len(r.Files),
		Skipped:    len(r.Skipped),
		Records:    r.State.Len(),
		Kept:       r.State.KeptCount(),
		Duplicates: r.State.DuplicateCount(),
	}
}

// Parse scans roots and parses every file found. Files are parsed in
// parallel; the sets come back in scan order.
func (c *client) Parse(ctx context.Context, roots ...string) (*ParseResult, error) {
	return c.parse(ctx, nil, roots)
}

// parse is Parse with the files in exclude left out of the scan.
func (c *client) parse(ctx context.Context, exclude, roots []string) (*ParseResult, error) {
	if len(roots) == 0 {
		return nil, errors.NewValidationError("roots", nil, "at least one root is required")
	}
	ctx = c.withLogger(ctx)
	logger := logging.FromContext(ctx)

	files, err := c.source.ScanExcluding(ctx, exclude, roots...)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Strs("roots", roots).
		Int("files", len(files)).
		Msg("Scan complete")

	sets := make([]records.Set, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.options.concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := c.source.Read(path)
			if err != nil {
				return err
			}
			set, err := c.parser.Parse(path, data)
			if err != nil {
				if c.options.policy.Skippable(err) {
					failures[i] = err
					return nil
				}
				return err
			}
			sets[i] = set
			logging.FromContext(logging.WithFile(gctx, path)).Debug().
				Int("records", set.Len()).
				Msg("Parsed file")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, ctx.Err())
		}
		return nil, err
	}

	result := &ParseResult{Sets: make([]records.Set, 0, len(files))}
	for i, path := range files {
		if failures[i] != nil {
			skipped := SkippedFile{Path: path, Reason: failures[i].Error(), Err: failures[i]}
			logger.Warn().
				Err(failures[i]).
				Str("file", path).
				Msg("Skipping invalid file")
			result.Skipped = append(result.Skipped, skipped)
			c.hooks.triggerSkipped(skipped)
			continue
		}
		result.Sets = append(result.Sets, sets[i])
	}
	return result, nil
}

// Merge scans roots, parses the files found and folds them in scan order.
func (c *client) Merge(ctx context.Context, roots ...string) (*Result, error) {
	return c.merge(ctx, nil, roots)
}

func (c *client) merge(ctx context.Context, exclude, roots []string) (*Result, error) {
	ctx = c.withLogger(ctx)
	logger := logging.FromContext(logging.WithOperation(ctx, "merge"))

	parsed, err := c.parse(ctx, exclude, roots)
	if err != nil {
		return nil, err
	}

	result := &Result{
		State:   merge.NewState(),
		Files:   parsed.Files(),
		Skipped: parsed.Skipped,
	}
	for _, set := range parsed.Sets {
		placements := result.State.Merge(set)
		for _, p := range placements {
			if p.Shadows {
				result.Shadowed = append(result.Shadowed, p.Name)
				logger.Warn().
					Str("key", p.Name).
					Str("file", p.Record.Source).
					Int("line", p.Record.Line).
					Msg("Kept key equals an earlier duplicate name")
			}
		}
		c.hooks.triggerPlacements(placements)
	}

	stats := result.Stats()
	logger.Info().
		Int("files", stats.Files).
		Int("skipped", stats.Skipped).
		Int("kept", stats.Kept).
		Int("duplicates", stats.Duplicates).
		Msg("Merged records")
	return result, nil
}

// Run merges roots and saves the result. When saving to files both output
// paths are left out of the scan, so outputs of an earlier run inside a root
// are not merged back in. Nothing is written unless the whole run succeeds.
func (c *client) Run(ctx context.Context, roots []string, opts ...save.Option) (*Result, error) {
	options := save.Defaults().Apply(opts...)

	var exclude []string
	if !options.UsesWriters() {
		if options.Path() == "" {
			return nil, errors.NewValidationError("output", "", "output path is required")
		}
		exclude = []string{options.Path(), options.DuplicatesPath()}
	}

	result, err := c.merge(ctx, exclude, roots)
	if err != nil {
		return nil, err
	}
	if err := c.Save(ctx, result, opts...); err != nil {
		return nil, err
	}
	return result, nil
}

// withLogger installs the configured logger on ctx, if any.
func (c *client) withLogger(ctx context.Context) context.Context {
	if c.options.logger == nil {
		return ctx
	}
	return logging.WithLogger(ctx, c.options.logger)
}

// DuplicateInfo describes one record of the duplicates output.
type DuplicateInfo struct {
	Name   string `json:"name" yaml:"name"`
	Key    string `json:"key" yaml:"key"`
	Type   string `json:"type" yaml:"type"`
	Source string `json:"source" yaml:"source"`
	Line   int    `json:"line" yaml:"line"`
}

// Summary is the printable account of a run.
type Summary struct {
	Output           string          `json:"output,omitempty" yaml:"output,omitempty"`
	DuplicatesOutput string          `json:"duplicates_output,omitempty" yaml:"duplicates_output,omitempty"`
	Stats            Stats           `json:"stats" yaml:"stats"`
	Duplicates       []DuplicateInfo `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Skipped          []SkippedFile   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Shadowed         []string        `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

// Summary returns the summary of r. Output paths are left for the caller.
func (r *Result) Summary() Summary {
	dups := r.State.Duplicates()
	infos := make([]DuplicateInfo, 0, len(dups))
	for _, e := range dups {
		infos = append(infos, DuplicateInfo{
			Name:   e.Name,
			Key:    e.Record.Key,
			Type:   e.Record.Type,
			Source: e.Record.Source,
			Line:   e.Record.Line,
		})
	}
	return Summary{
		Stats:      r.Stats(),
		Duplicates: infos,
		Skipped:    r.Skipped,
		Shadowed:   r.Shadowed,
	}
}
