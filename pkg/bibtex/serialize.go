package bibtex

import (
	"bufio"
	"io"

	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/records"
)

// Serialize renders r as "@" + type + body + "\n". The body is emitted as
// captured, so formatting inside it round-trips byte for byte.
func Serialize(r records.Record) string {
	return string(AT) + r.Type + r.Body + string(NEWLINE)
}

// Writer writes serialized records to an underlying writer.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that buffers output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, constants.WriteBufferSize)}
}

// Write serializes one record.
func (w *Writer) Write(r records.Record) error {
	_, err := w.w.WriteString(Serialize(r))
	return err
}

// WriteAll serializes rs in order and flushes.
func (w *Writer) WriteAll(rs []records.Record) error {
	for _, r := range rs {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
