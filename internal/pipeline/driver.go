package pipeline

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/vepslice/vepslice/internal/output"
	"github.com/vepslice/vepslice/internal/source"
	"github.com/vepslice/vepslice/internal/vcf"
)

// Driver runs the streaming pipeline: source lines in, encoded header and
// row units out. Each run is independent; the driver holds no state between
// runs and the source is released on every exit path.
type Driver struct {
	logger *zap.Logger
}

// NewDriver creates a driver with a no-op logger.
func NewDriver() *Driver {
	return &Driver{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and diagnostic messages.
func (d *Driver) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Run drives src through the header builder, range gate, row expander and
// enc until the source is exhausted, the gate stops the stream, or an error
// occurs. The source is closed before Run returns.
func (d *Driver) Run(src source.LineSource, enc output.Encoder, opts Options) error {
	defer src.Close()

	mode, err := opts.Mode()
	if err != nil {
		return err
	}

	// The external filter applies the same 1-based window itself, so the
	// in-process gate only runs when no filter is active.
	var gate *Gate
	if opts.Filter == "" {
		gate = NewGate(opts.From, opts.To)
	}

	if mode == ModeRaw {
		return d.runRaw(src, enc, gate)
	}
	return d.runParsed(src, enc, gate)
}

// runParsed buffers the leading comment block, builds the header bundle on
// the first data line (or at end of stream if no data line arrives), and
// expands every gated data line through the encoder.
func (d *Driver) runParsed(src source.LineSource, enc output.Encoder, gate *Gate) error {
	var comments []string
	var hb *vcf.HeaderBundle
	lineNo := 0
	emitted := 0

	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		lineNo++

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if hb == nil {
				comments = append(comments, line)
			}
			continue
		}

		if hb == nil {
			if len(comments) == 0 {
				return &vcf.StructuralHeaderError{Line: lineNo, Message: "data line before any header comment"}
			}
			hb, err = vcf.BuildHeader(comments)
			if err != nil {
				return err
			}
			if err := enc.EncodeHeader(hb); err != nil {
				return err
			}
		}

		if gate != nil {
			switch gate.Next() {
			case VerdictSkip:
				continue
			case VerdictStop:
				d.logger.Debug("range window exhausted, closing source early",
					zap.Int("lines_read", lineNo))
				return enc.Flush()
			}
		}

		rows := vcf.ExpandLine(line, hb)
		if err := enc.EncodeRows(rows); err != nil {
			return err
		}
		emitted += len(rows)
	}

	// The header is still surfaced when the stream carried no data lines,
	// e.g. when an upstream filter matched nothing.
	if hb == nil {
		if len(comments) == 0 {
			return &vcf.StructuralHeaderError{Line: lineNo, Message: "stream ended before any header comment"}
		}
		built, err := vcf.BuildHeader(comments)
		if err != nil {
			return err
		}
		if err := enc.EncodeHeader(built); err != nil {
			return err
		}
	}

	if emitted == 0 {
		d.logger.Info("0 rows emitted")
	}

	return enc.Flush()
}

// runRaw streams lines verbatim. The header/row model is never built; the
// gate still windows the data lines.
func (d *Driver) runRaw(src source.LineSource, enc output.Encoder, gate *Gate) error {
	le, ok := enc.(output.LineEncoder)
	if !ok {
		return fmt.Errorf("raw output requires a line encoder, got %T", enc)
	}

	sawComment := false
	lineNo := 0

	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		lineNo++

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			sawComment = true
		} else {
			if !sawComment {
				return &vcf.StructuralHeaderError{Line: lineNo, Message: "data line before any header comment"}
			}
			if gate != nil {
				switch gate.Next() {
				case VerdictSkip:
					continue
				case VerdictStop:
					return enc.Flush()
				}
			}
		}

		if err := le.EncodeLine(line); err != nil {
			return err
		}
	}

	return enc.Flush()
}
