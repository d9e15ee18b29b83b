package bibmerge

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/bibmerge/pkg/bibtex"
	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/errors"
	"github.com/agentstation/bibmerge/pkg/merge"
)

// options holds the configuration of a client.
type options struct {
	fs          afero.Fs
	logger      *zerolog.Logger
	extension   string
	recursive   bool
	policy      merge.Policy
	concurrency int
	parser      *bibtex.Parser
}

// Option is a function that configures a client.
type Option func(*options)

// defaults returns the default client options.
func defaults() *options {
	return &options{
		fs:          afero.NewOsFs(),
		extension:   constants.DefaultExtension,
		recursive:   true,
		policy:      merge.PolicyAbort,
		concurrency: min(runtime.NumCPU(), constants.MaxConcurrentParsers),
	}
}

// apply applies the given options and returns the result.
func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// validate checks the options for values a run cannot work with.
func (o *options) validate() error {
	if !o.policy.IsValid() {
		return errors.NewValidationError("policy", o.policy, "must be one of: abort, skip")
	}
	if o.concurrency < 1 || o.concurrency > constants.MaxConcurrentParsers {
		return errors.NewValidationError("jobs", o.concurrency, fmt.Sprintf("must be between 1 and %d", constants.MaxConcurrentParsers))
	}
	return nil
}

// WithFS configures the filesystem roots are read from and outputs written to.
func WithFS(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger configures the logger for runs, replacing any logger carried
// by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExtension configures the extension files must carry to be merged.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// WithRecursive configures whether directory roots are walked recursively.
func WithRecursive(recursive bool) Option {
	return func(o *options) {
		o.recursive = recursive
	}
}

// WithPolicy configures what happens to files that fail to parse.
func WithPolicy(policy merge.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithSkipInvalid is shorthand for WithPolicy(merge.PolicyFor(skip)).
func WithSkipInvalid(skip bool) Option {
	return WithPolicy(merge.PolicyFor(skip))
}

// WithConcurrency configures how many files are parsed at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithParser configures the record parser.
func WithParser(p *bibtex.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}
