// Package output provides the format encoders for sliced variant streams.
package output

import (
	"github.com/vepslice/vepslice/internal/vcf"
)

// Encoder renders header and row events in one output format. EncodeRows is
// called once per source line with all rows expanded from that line.
type Encoder interface {
	EncodeHeader(hb *vcf.HeaderBundle) error
	EncodeRows(rows []vcf.Row) error
	Flush() error
}

// LineEncoder is implemented by encoders that pass source lines through
// without invoking the header/row model (raw output).
type LineEncoder interface {
	EncodeLine(line string) error
}

// renderValue renders a column value, with "-" standing in for a value that
// is absent or empty.
func renderValue(row vcf.Row, col string) string {
	if v, ok := row[col]; ok && v != "" {
		return v
	}
	return "-"
}
