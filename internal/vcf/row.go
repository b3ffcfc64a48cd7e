package vcf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Row maps a column name to its value for one expanded annotation entry.
// A missing value is an absent key, distinct from an empty string; flat
// encoders render both as "-" but the structured output only carries keys
// that are present.
type Row map[string]string

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// chromPrefixes are stripped from chromosome names, longest first.
var chromPrefixes = []string{"chromosome", "chrom", "chr"}

// endToken matches an END=<digits> INFO token anywhere on a data line.
var endToken = regexp.MustCompile(`(?:^|[;\s])END=(\d+)`)

// ExpandLine expands one data line into one or more rows. Every CSQ= payload
// on the line contributes one row per comma-separated annotation entry; a
// line without CSQ yields exactly one row built from the raw columns alone.
// Each row carries the raw column values (including the ones excluded from
// the combined header), the synthesized Location span, and a synthesized ID
// when the source ID is missing.
func ExpandLine(line string, hb *HeaderBundle) []Row {
	fields := strings.Fields(line)

	raw := make(Row, len(hb.RawColumns)+2)
	for i, col := range hb.RawColumns {
		if i < len(fields) {
			raw[col] = fields[i]
		}
	}

	if chrom, ok := raw["CHROM"]; ok {
		raw["CHROM"] = NormalizeChrom(chrom)
	}
	synthesizeLocation(raw, line)
	synthesizeID(raw)

	payloads := csqPayloads(line)
	if len(payloads) == 0 {
		return []Row{raw}
	}

	var rows []Row
	for _, payload := range payloads {
		for _, entry := range strings.Split(payload, ",") {
			// & is the escape for a literal comma inside an entry.
			values := strings.Split(strings.ReplaceAll(entry, "&", ","), "|")
			row := raw.Clone()
			for i, col := range hb.CSQColumns {
				if i < len(values) {
					row[col] = values[i]
				}
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// NormalizeChrom strips a leading chr/chrom/chromosome prefix from a
// chromosome name. Names already starting with "chr_" (scaffold-style
// identifiers) are kept as-is. Matching is case-insensitive.
func NormalizeChrom(chrom string) string {
	lower := strings.ToLower(chrom)
	if strings.HasPrefix(lower, "chr_") {
		return chrom
	}
	for _, prefix := range chromPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return chrom[len(prefix):]
		}
	}
	return chrom
}

// synthesizeLocation sets the Location column to "CHROM:start-end". The end
// coordinate comes from an END= token when the line carries one, otherwise
// POS + len(REF) - 1. The span is numerically ascending regardless of strand.
func synthesizeLocation(raw Row, line string) {
	pos, err := strconv.ParseInt(raw["POS"], 10, 64)
	if err != nil {
		return
	}
	end := pos
	if m := endToken.FindStringSubmatch(line); m != nil {
		end, _ = strconv.ParseInt(m[1], 10, 64)
	} else if ref, ok := raw["REF"]; ok {
		end = pos + int64(len(ref)) - 1
	}
	start := pos
	if end < start {
		start, end = end, start
	}
	raw[LocationColumn] = fmt.Sprintf("%s:%d-%d", raw["CHROM"], start, end)
}

// synthesizeID assigns CHROM_POS_REF/ALT when the source ID is missing,
// empty, or the VCF "." placeholder. For indels the shared leading base is
// dropped from REF and ALT first, with "-" standing in for an emptied side.
func synthesizeID(raw Row) {
	if id := raw["ID"]; id != "" && id != "." {
		return
	}
	ref, alt := raw["REF"], raw["ALT"]
	if len(ref) != len(alt) {
		if len(ref) > 0 {
			ref = ref[1:]
		}
		if len(alt) > 0 {
			alt = alt[1:]
		}
		if ref == "" {
			ref = "-"
		}
		if alt == "" {
			alt = "-"
		}
	}
	raw["ID"] = fmt.Sprintf("%s_%s_%s/%s", raw["CHROM"], raw["POS"], ref, alt)
}

// csqPayloads returns every CSQ= payload on the line. A payload runs from
// the byte after "CSQ=" to the next semicolon, whitespace, or end of line.
func csqPayloads(line string) []string {
	var payloads []string
	rest := line
	for {
		i := strings.Index(rest, "CSQ=")
		if i < 0 {
			break
		}
		rest = rest[i+len("CSQ="):]
		end := strings.IndexFunc(rest, func(r rune) bool {
			return r == ';' || unicode.IsSpace(r)
		})
		if end < 0 {
			payloads = append(payloads, rest)
			break
		}
		payloads = append(payloads, rest[:end])
		rest = rest[end:]
	}
	return payloads
}
