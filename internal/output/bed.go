package output

import (
	"bufio"
	"io"

	"github.com/varmine/varmine/internal/psl"
)

// BedWriter writes projected genome intervals as BED12 lines.
type BedWriter struct {
	w *bufio.Writer
}

// NewBedWriter creates a new BED writer.
func NewBedWriter(w io.Writer) *BedWriter {
	return &BedWriter{w: bufio.NewWriter(w)}
}

// Write writes a single interval.
func (bw *BedWriter) Write(b *psl.Bed) error {
	_, err := bw.w.WriteString(b.String() + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BedWriter) Flush() error {
	return bw.w.Flush()
}
