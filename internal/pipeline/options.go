// Package pipeline wires a line source through the header/row model and a
// format encoder, streaming one output unit at a time.
package pipeline

import "fmt"

// Mode selects the output encoding. A single tagged variant replaces the
// format/parsed flag pair so no invalid combination exists past Options.
type Mode int

const (
	// ModeRaw passes source lines through unmodified.
	ModeRaw Mode = iota
	// ModeStructured emits the header bundle and normalized rows as events.
	ModeStructured
	// ModeTab renders combined-column tab-delimited text.
	ModeTab
	// ModeVEP renders the fixed VEP annotation-table layout.
	ModeVEP
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "vcf"
	case ModeStructured:
		return "parsed"
	case ModeTab:
		return "tab"
	case ModeVEP:
		return "vep"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options is the caller configuration for one pipeline run. All fields are
// optional; the zero value streams the whole file as raw VCF.
type Options struct {
	From     int64  // first data row to emit, 1-based; 0 emits from the start
	To       int64  // last data row to emit; 0 is unbounded
	Location string // region expression; enables indexed retrieval upstream
	Filter   string // external predicate expression; disables the in-process gate
	Format   string // "", "vcf", "tab" or "vep"
	Parsed   bool   // structured output; mutually exclusive with Format
}

// Mode resolves the format/parsed pair into a single output mode.
func (o Options) Mode() (Mode, error) {
	if o.Parsed {
		if o.Format != "" {
			return 0, fmt.Errorf("parsed output and format %q are mutually exclusive", o.Format)
		}
		return ModeStructured, nil
	}
	switch o.Format {
	case "", "vcf":
		return ModeRaw, nil
	case "tab":
		return ModeTab, nil
	case "vep":
		return ModeVEP, nil
	default:
		return 0, fmt.Errorf("unknown output format %q", o.Format)
	}
}
