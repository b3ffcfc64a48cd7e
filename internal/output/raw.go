package output

import (
	"bufio"
	"io"

	"github.com/vepslice/vepslice/internal/vcf"
)

// RawEncoder passes source lines through unmodified.
type RawEncoder struct {
	w *bufio.Writer
}

// NewRawEncoder creates a passthrough encoder.
func NewRawEncoder(w io.Writer) *RawEncoder {
	return &RawEncoder{w: bufio.NewWriter(w)}
}

// EncodeLine writes one source line verbatim.
func (e *RawEncoder) EncodeLine(line string) error {
	_, err := e.w.WriteString(line + "\n")
	return err
}

// EncodeHeader is a no-op; raw output never builds the header model.
func (e *RawEncoder) EncodeHeader(*vcf.HeaderBundle) error { return nil }

// EncodeRows is a no-op; raw output never expands rows.
func (e *RawEncoder) EncodeRows([]vcf.Row) error { return nil }

// Flush flushes buffered output.
func (e *RawEncoder) Flush() error { return e.w.Flush() }
