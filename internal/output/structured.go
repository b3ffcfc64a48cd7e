package output

import (
	"github.com/vepslice/vepslice/internal/vcf"
)

// StructuredEncoder surfaces header and row events to caller callbacks
// instead of rendering text. The header callback fires exactly once; the
// rows callback fires once per source line with that line's expansion.
type StructuredEncoder struct {
	headerFn func(*vcf.HeaderBundle) error
	rowsFn   func([]vcf.Row) error
}

// NewStructuredEncoder creates an encoder that forwards structural events.
func NewStructuredEncoder(headerFn func(*vcf.HeaderBundle) error, rowsFn func([]vcf.Row) error) *StructuredEncoder {
	return &StructuredEncoder{headerFn: headerFn, rowsFn: rowsFn}
}

// EncodeHeader forwards the header bundle.
func (e *StructuredEncoder) EncodeHeader(hb *vcf.HeaderBundle) error {
	return e.headerFn(hb)
}

// EncodeRows forwards one source line's rows.
func (e *StructuredEncoder) EncodeRows(rows []vcf.Row) error {
	return e.rowsFn(rows)
}

// Flush is a no-op; structured output carries no buffered text.
func (e *StructuredEncoder) Flush() error { return nil }
