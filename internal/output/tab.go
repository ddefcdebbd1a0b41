// Package output provides the tabular writers for resolved variants and
// their genome projections.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/varmine/varmine/internal/ground"
)

// TabWriter writes variant records in tab-delimited format, one row per
// grounded (or ungrounded) variant.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited record writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString("#" + strings.Join(ground.Fields, "\t") + "\n")
	return err
}

// Write writes a single record. Embedded tabs and newlines are flattened
// so every record stays one row.
func (tw *TabWriter) Write(r *ground.Record) error {
	row := r.Row()
	for i, field := range row {
		if strings.ContainsAny(field, "\t\n") {
			field = strings.ReplaceAll(field, "\t", " ")
			field = strings.ReplaceAll(field, "\n", " ")
			row[i] = field
		}
	}
	_, err := tw.w.WriteString(strings.Join(row, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
