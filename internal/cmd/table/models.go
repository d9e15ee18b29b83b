// Package table converts merge results into rows for table output.
package table

import (
	"strconv"

	"github.com/agentstation/bibmerge"
	"github.com/agentstation/bibmerge/pkg/bibtex"
	"github.com/agentstation/bibmerge/pkg/records"
)

var extractor = bibtex.NewKeyExtractor()

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// StatsToTableData renders the counts of a run as a two-column table.
func StatsToTableData(stats bibmerge.Stats) Data {
	return Data{
		Headers: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Files merged", strconv.Itoa(stats.Files)},
			{"Files skipped", strconv.Itoa(stats.Skipped)},
			{"Records", strconv.Itoa(stats.Records)},
			{"Kept", strconv.Itoa(stats.Kept)},
			{"Duplicates", strconv.Itoa(stats.Duplicates)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// DuplicatesToTableData lists the duplicates of a run. Wide output adds the
// entry type and the line of the record in its source file.
func DuplicatesToTableData(dups []bibmerge.DuplicateInfo, wide bool) Data {
	headers := []string{"Name", "Key", "Source"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Type", "Line")
		align = append(align, AlignLeft, AlignRight)
	}

	rows := make([][]string, 0, len(dups))
	for _, d := range dups {
		row := []string{d.Name, d.Key, d.Source}
		if wide {
			row = append(row, d.Type, strconv.Itoa(d.Line))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// SkippedToTableData lists files left out of a run.
func SkippedToTableData(skipped []bibmerge.SkippedFile) Data {
	rows := make([][]string, 0, len(skipped))
	for _, s := range skipped {
		rows = append(rows, []string{s.Path, s.Reason})
	}
	return Data{Headers: []string{"File", "Reason"}, Rows: rows}
}

// RecordsToTableData lists parsed records, one row each, in file order.
func RecordsToTableData(sets []records.Set, wide bool) Data {
	headers := []string{"Key", "Type", "Source"}
	if wide {
		headers = append(headers, "Line", "Fields")
	}

	var rows [][]string
	for _, set := range sets {
		for _, r := range set.Records {
			row := []string{r.Key, r.Type, r.Source}
			if wide {
				row = append(row, strconv.Itoa(r.Line), strconv.Itoa(FieldCount(r)))
			}
			rows = append(rows, row)
		}
	}
	return Data{Headers: headers, Rows: rows}
}

// FieldCount returns the number of non-empty fields after the citation key.
func FieldCount(r records.Record) int {
	n := 0
	for _, f := range extractor.Fields(r.Body)[1:] {
		if f != "" {
			n++
		}
	}
	return n
}
