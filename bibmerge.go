// Package bibmerge consolidates BibTeX records spread over many files into a
// single file holding one record per citation key, and moves every record
// whose key collided into a companion duplicates file.
//
// A run scans roots for .bib files, parses them in parallel, folds the parsed
// sets into a merge state in scan order and writes both outputs. Either both
// outputs are written or neither is.
//
// Example usage:
//
//	client, err := bibmerge.New(bibmerge.WithSkipInvalid(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnDuplicate(func(e merge.Entry) {
//	    log.Printf("duplicate %s from %s", e.Name, e.Record.Source)
//	})
//
//	result, err := client.Run(ctx, []string{"refs/", "more/extra.bib"}, save.WithPath("out/all.bib"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats().Kept, "records kept")
package bibmerge

import (
	"github.com/agentstation/bibmerge/internal/sources/local"
	"github.com/agentstation/bibmerge/pkg/bibtex"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client merges bibliography files.
type Client interface {

	// Merger scans, parses and folds roots
	Merger

	// Persistence writes merge results
	Persistence

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	source  *local.Source
	parser  *bibtex.Parser
	hooks   *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}

	parser := o.parser
	if parser == nil {
		parser = bibtex.NewParser()
	}

	return &client{
		options: o,
		source: local.New(
			local.WithFS(o.fs),
			local.WithExtension(o.extension),
			local.WithRecursive(o.recursive),
		),
		parser: parser,
		hooks:  newHooks(),
	}, nil
}
