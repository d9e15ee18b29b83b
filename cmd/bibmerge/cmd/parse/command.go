// Package parse provides the parse command.
package parse

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/internal/appcontext"
	"github.com/agentstation/bibmerge/internal/cmd/output"
)

// NewCommand creates the parse command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		recursive   bool
		skipInvalid bool
		extension   string
	)

	cmd := &cobra.Command{
		Use:     "parse <path>...",
		GroupID: "core",
		Short:   "List the records found in BibTeX files",
		Args:    cobra.MinimumNArgs(1),
		Long: `Parse reads BibTeX files the way merge does and lists every record with
its citation key, entry type and source file, without merging or writing
anything. Use it to check files before a merge.`,
		Example: `  bibmerge parse refs/a.bib              # list the records of one file
  bibmerge parse refs/ -f wide           # include line numbers and field counts
  bibmerge parse refs/ --skip-invalid    # list what a skipping merge would read`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []bibmerge.Option
			if cmd.Flags().Changed("ext") {
				opts = append(opts, bibmerge.WithExtension(extension))
			}
			if cmd.Flags().Changed("recursive") {
				opts = append(opts, bibmerge.WithRecursive(recursive))
			}
			if cmd.Flags().Changed("skip-invalid") {
				opts = append(opts, bibmerge.WithSkipInvalid(skipInvalid))
			}

			client, err := app.Client(opts...)
			if err != nil {
				return err
			}
			parsed, err := client.Parse(cmd.Context(), args...)
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Int("files", len(parsed.Sets)).
				Int("skipped", len(parsed.Skipped)).
				Msg("Parse complete")
			return output.FormatRecords(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), parsed.Sets)
		},
	}

	cmd.Flags().StringVar(&extension, "ext", ".bib", "extension of files to read when walking directories")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "walk directories recursively")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip files that fail to parse instead of aborting")

	return cmd
}
