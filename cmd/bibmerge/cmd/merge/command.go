// Package merge provides the merge command.
package merge

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/internal/appcontext"
	"github.com/agentstation/bibmerge/internal/cmd/output"
	"github.com/agentstation/bibmerge/pkg/save"
)

// Flags holds the merge command flags.
type Flags struct {
	Output      string
	Duplicates  string
	Extension   string
	Recursive   bool
	SkipInvalid bool
	Jobs        int
	Summary     bool
}

// NewCommand creates the merge command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge <root>... -o <output>",
		GroupID: "core",
		Short:   "Merge BibTeX files into one output and a duplicates file",
		Args:    cobra.MinimumNArgs(1),
		Long: `Merge scans every root for BibTeX files, in the order given. Directories
are walked in lexical order; a root naming a file is merged whatever its
extension.

The first record seen for a citation key is kept and written to the output.
Every later record with the same key is written to the duplicates file as
<key>_<n>, n being the smallest number not yet used for that key. The
records themselves are written unchanged.

A file that fails to parse aborts the run unless --skip-invalid is given.
Read and write failures always abort. An aborted run writes nothing.`,
		Example: `  bibmerge merge refs/ -o all.bib                 # writes all.bib and all_duplicates.bib
  bibmerge merge a.bib b.bib -o out/merged.bib     # earlier roots win collisions
  bibmerge merge refs/ -o all.bib --skip-invalid   # leave out unparseable files
  bibmerge merge refs/ -o all.bib --recursive=false -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, cmd, flags, args)
		},
	}

	addFlags(cmd, flags)

	return cmd
}

// addFlags registers the merge flags on cmd.
func addFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()
	f.StringVarP(&flags.Output, "output", "o", "", "primary output file (required)")
	f.StringVar(&flags.Duplicates, "duplicates", "", "duplicates output file (default <output>_duplicates<ext>)")
	f.StringVar(&flags.Extension, "ext", ".bib", "extension of files to merge when walking directories")
	f.BoolVarP(&flags.Recursive, "recursive", "r", true, "walk directories recursively")
	f.BoolVar(&flags.SkipInvalid, "skip-invalid", false, "skip files that fail to parse instead of aborting")
	f.IntVarP(&flags.Jobs, "jobs", "j", 0, "number of files parsed at once (default number of CPUs)")
	f.BoolVar(&flags.Summary, "summary", true, "print a summary of the run")
	_ = cmd.MarkFlagRequired("output")
}

// ClientOptions returns the client options for the flags set on cmd. Flags
// left unset fall back to the configuration.
func ClientOptions(cmd *cobra.Command, flags *Flags) []bibmerge.Option {
	var opts []bibmerge.Option
	f := cmd.Flags()
	if f.Changed("ext") {
		opts = append(opts, bibmerge.WithExtension(flags.Extension))
	}
	if f.Changed("recursive") {
		opts = append(opts, bibmerge.WithRecursive(flags.Recursive))
	}
	if f.Changed("skip-invalid") {
		opts = append(opts, bibmerge.WithSkipInvalid(flags.SkipInvalid))
	}
	if f.Changed("jobs") {
		opts = append(opts, bibmerge.WithConcurrency(flags.Jobs))
	}
	return opts
}

// Execute merges roots and writes both outputs.
func Execute(ctx context.Context, app appcontext.Interface, cmd *cobra.Command, flags *Flags, roots []string) error {
	logger := app.Logger()

	client, err := app.Client(ClientOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	duplicates := flags.Duplicates
	if duplicates == "" {
		duplicates = save.DuplicatesPath(flags.Output)
	}
	result, err := client.Run(ctx, roots, save.WithPath(flags.Output), save.WithDuplicatesPath(duplicates))
	if err != nil {
		return err
	}
	logger.Debug().
		Str("output", flags.Output).
		Str("duplicates", duplicates).
		Msg("Merge complete")

	if !flags.Summary {
		return nil
	}
	summary := result.Summary()
	summary.Output = flags.Output
	summary.DuplicatesOutput = duplicates
	return output.FormatSummary(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), summary)
}
