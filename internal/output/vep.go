package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/vepslice/vepslice/internal/vcf"
)

// vepColumns is the fixed VEP tabular output schema. The trailing Extra
// column carries every combined-header column not covered by the leading
// fields, as semicolon-joined key=value pairs.
var vepColumns = []string{
	UploadedVariation,
	"Location",
	"Allele",
	"Gene",
	"Feature",
	"Feature_type",
	"Consequence",
	"cDNA_position",
	"CDS_position",
	"Protein_position",
	"Amino_acids",
	"Codons",
	"Existing_variation",
	"Extra",
}

// VEPEncoder renders rows in the fixed VEP annotation-table layout.
type VEPEncoder struct {
	w        *bufio.Writer
	combined []string // combined columns in declared order; set by EncodeHeader
}

// NewVEPEncoder creates a flat-annotation-table encoder writing to w.
func NewVEPEncoder(w io.Writer) *VEPEncoder {
	return &VEPEncoder{w: bufio.NewWriter(w)}
}

// EncodeHeader writes the fixed column schema and records the combined
// column order used to build the Extra field.
func (e *VEPEncoder) EncodeHeader(hb *vcf.HeaderBundle) error {
	e.combined = hb.CombinedColumns

	_, err := e.w.WriteString("#" + strings.Join(vepColumns, "\t") + "\n")
	return err
}

// EncodeRows writes one line per row. Each leading field consumes its value
// from the row; whatever combined-header values remain present and non-empty
// end up in Extra, in declared column order.
func (e *VEPEncoder) EncodeRows(rows []vcf.Row) error {
	for _, row := range rows {
		r := row.Clone()

		if v, ok := r[UploadedVariation]; !ok || v == "" {
			if id, ok := r["ID"]; ok {
				r[UploadedVariation] = id
				delete(r, "ID")
			}
		}

		values := make([]string, 0, len(vepColumns))
		for _, col := range vepColumns[:len(vepColumns)-1] {
			v, ok := r[col]
			delete(r, col)
			if !ok || v == "" {
				v = "-"
			}
			values = append(values, v)
		}

		var extra []string
		for _, col := range e.combined {
			if v, ok := r[col]; ok && v != "" {
				extra = append(extra, col+"="+v)
			}
		}
		if len(extra) == 0 {
			values = append(values, "-")
		} else {
			values = append(values, strings.Join(extra, ";"))
		}

		if _, err := e.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (e *VEPEncoder) Flush() error { return e.w.Flush() }
