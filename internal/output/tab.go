package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/vepslice/vepslice/internal/vcf"
)

// UploadedVariation is the flat-format name for the source ID column.
const UploadedVariation = "Uploaded_variation"

// TabEncoder renders rows as tab-delimited text in combined-column order.
// The ID column is surfaced as Uploaded_variation, matching VEP's flat
// tabular convention.
type TabEncoder struct {
	w       *bufio.Writer
	columns []string // combined columns with ID renamed; set by EncodeHeader
}

// NewTabEncoder creates a flat-text encoder writing to w.
func NewTabEncoder(w io.Writer) *TabEncoder {
	return &TabEncoder{w: bufio.NewWriter(w)}
}

// EncodeHeader writes "#" plus the tab-joined combined columns and pins the
// column order for all subsequent rows.
func (e *TabEncoder) EncodeHeader(hb *vcf.HeaderBundle) error {
	cols := make([]string, len(hb.CombinedColumns))
	for i, col := range hb.CombinedColumns {
		if col == "ID" {
			col = UploadedVariation
		}
		cols[i] = col
	}
	e.columns = cols

	_, err := e.w.WriteString("#" + strings.Join(cols, "\t") + "\n")
	return err
}

// EncodeRows writes one tab-joined line per row. Absent or empty values
// render as "-"; Uploaded_variation falls back to the ID column.
func (e *TabEncoder) EncodeRows(rows []vcf.Row) error {
	for _, row := range rows {
		values := make([]string, len(e.columns))
		for i, col := range e.columns {
			if col == UploadedVariation {
				if v, ok := row[col]; ok && v != "" {
					values[i] = v
				} else {
					values[i] = renderValue(row, "ID")
				}
				continue
			}
			values[i] = renderValue(row, col)
		}
		if _, err := e.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (e *TabEncoder) Flush() error { return e.w.Flush() }
