// Package vcf provides the header and row model for VEP-annotated VCF streams.
package vcf

import (
	"strings"
)

// LocationColumn is the synthetic column inserted into the combined header.
const LocationColumn = "Location"

// fixedColumns are the standard VCF columns that never appear in the
// combined header; ID is the one standard column that survives.
var fixedColumns = map[string]bool{
	"CHROM":  true,
	"POS":    true,
	"REF":    true,
	"ALT":    true,
	"QUAL":   true,
	"FILTER": true,
}

// HeaderBundle is the structured header model built from the comment lines
// preceding the first data line. It is immutable once built and its
// CombinedColumns slice is the authoritative column order for parsed and
// flat outputs for the lifetime of one stream.
type HeaderBundle struct {
	// RawColumns are the column names from the single-# tabular header line.
	RawColumns []string
	// CSQColumns are the sub-field names declared by the CSQ INFO meta line.
	CSQColumns []string
	// CombinedColumns is RawColumns ++ CSQColumns minus the fixed VCF columns
	// and everything from INFO onward, with Location inserted at index 1.
	CombinedColumns []string
	// Descriptions maps meta-header keys to their free-text descriptions.
	Descriptions map[string]string
}

// BuildHeader builds a HeaderBundle from the comment lines that preceded the
// first data line, in file order. Lines are scanned in reverse so the column
// header line nearest the data wins, and the CSQ declaration is found
// independent of its position.
func BuildHeader(comments []string) (*HeaderBundle, error) {
	if len(comments) == 0 {
		return nil, &StructuralHeaderError{Message: "no header comment lines"}
	}

	hb := &HeaderBundle{Descriptions: make(map[string]string)}

	for i := len(comments) - 1; i >= 0; i-- {
		line := comments[i]
		switch {
		case hb.CSQColumns == nil && isCSQDeclaration(line):
			hb.CSQColumns = parseCSQFormat(line)
		case hb.RawColumns == nil && isColumnHeader(line):
			hb.RawColumns = strings.Fields(strings.TrimPrefix(line, "#"))
		default:
			key, value, ok := parseDescription(line)
			if ok {
				if _, seen := hb.Descriptions[key]; !seen {
					hb.Descriptions[key] = value
				}
			}
		}
	}

	hb.CombinedColumns = combineColumns(hb.RawColumns, hb.CSQColumns)

	return hb, nil
}

// isCSQDeclaration reports whether line is a meta-header declaring the CSQ
// INFO field.
func isCSQDeclaration(line string) bool {
	return strings.HasPrefix(line, "##") && strings.Contains(line, "INFO=<ID=CSQ")
}

// isColumnHeader reports whether line is the single-# tabular header line.
func isColumnHeader(line string) bool {
	return strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##")
}

// parseCSQFormat extracts the pipe-separated sub-field names from the quoted
// "Format: a|b|c" fragment of a CSQ declaration line.
func parseCSQFormat(line string) []string {
	const marker = "Format: "
	idx := strings.Index(line, marker)
	if idx < 0 {
		return nil
	}
	rest := line[idx+len(marker):]
	if q := strings.IndexByte(rest, '"'); q >= 0 {
		rest = rest[:q]
	}
	return strings.Split(rest, "|")
}

// parseDescription parses a key=value meta-header line. The value is
// truncated at the first literal " file " fragment, which in practice
// carries a server-local path.
func parseDescription(line string) (key, value string, ok bool) {
	line = strings.TrimLeft(line, "#")
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	value = parts[1]
	if idx := strings.Index(value, " file "); idx >= 0 {
		value = value[:idx]
	}
	return parts[0], value, true
}

// combineColumns concatenates raw and CSQ columns, drops the fixed VCF
// columns plus everything from INFO to the end of the raw header, and
// inserts the synthetic Location column at index 1.
func combineColumns(raw, csq []string) []string {
	excluded := make(map[string]bool, len(fixedColumns)+4)
	for col := range fixedColumns {
		excluded[col] = true
	}
	// Trailing columns (FORMAT, samples) are excluded back to INFO inclusive.
	for i := len(raw) - 1; i >= 0; i-- {
		excluded[raw[i]] = true
		if raw[i] == "INFO" {
			break
		}
	}

	combined := make([]string, 0, len(raw)+len(csq)+1)
	seen := make(map[string]bool, len(raw)+len(csq))
	for _, col := range append(append([]string{}, raw...), csq...) {
		if excluded[col] || seen[col] {
			continue
		}
		seen[col] = true
		combined = append(combined, col)
	}

	pos := 1
	if pos > len(combined) {
		pos = len(combined)
	}
	combined = append(combined, "")
	copy(combined[pos+1:], combined[pos:])
	combined[pos] = LocationColumn

	return combined
}
