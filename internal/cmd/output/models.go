package output

import (
	"fmt"
	"io"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/internal/cmd/table"
	"github.com/agentstation/bibmerge/pkg/records"
)

// FormatSummary writes the summary of a merge run. Tables print the counts,
// then the duplicates and skipped files when there are any.
func FormatSummary(w io.Writer, format Format, summary bibmerge.Summary) error {
	formatter := NewFormatter(format)
	if !format.IsTable() {
		return formatter.Format(w, summary)
	}

	if summary.Output != "" {
		if _, err := fmt.Fprintf(w, "Wrote %s and %s\n", summary.Output, summary.DuplicatesOutput); err != nil {
			return err
		}
	}
	if err := formatter.Format(w, table.StatsToTableData(summary.Stats)); err != nil {
		return err
	}
	if len(summary.Duplicates) > 0 {
		if err := section(w, formatter, "Duplicates", table.DuplicatesToTableData(summary.Duplicates, format == FormatWide)); err != nil {
			return err
		}
	}
	if len(summary.Skipped) > 0 {
		if err := section(w, formatter, "Skipped files", table.SkippedToTableData(summary.Skipped)); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecords writes the records of parsed files.
func FormatRecords(w io.Writer, format Format, sets []records.Set) error {
	formatter := NewFormatter(format)
	if !format.IsTable() {
		return formatter.Format(w, sets)
	}
	return formatter.Format(w, table.RecordsToTableData(sets, format == FormatWide))
}

func section(w io.Writer, formatter Formatter, title string, data table.Data) error {
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return err
	}
	return formatter.Format(w, data)
}
