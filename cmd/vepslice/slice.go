package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vepslice/vepslice/internal/duckdb"
	"github.com/vepslice/vepslice/internal/output"
	"github.com/vepslice/vepslice/internal/pipeline"
	"github.com/vepslice/vepslice/internal/source"
	"github.com/vepslice/vepslice/internal/vcf"
)

func runSlice(args []string) int {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)

	var (
		location    string
		filter      string
		from        int64
		to          int64
		format      string
		parsed      bool
		outputFile  string
		catalogPath string
		verbose     bool
	)

	fs.StringVar(&location, "l", "", "Region expression (chrom:start-end); uses indexed retrieval")
	fs.StringVar(&location, "location", "", "Region expression (chrom:start-end); uses indexed retrieval")
	fs.StringVar(&filter, "filter", "", "Predicate expression handed to the external filter program")
	fs.Int64Var(&from, "from", 0, "First data row to emit (1-based)")
	fs.Int64Var(&to, "to", 0, "Last data row to emit (default: unbounded)")
	fs.StringVar(&format, "f", "", "Output format: vcf, tab, vep (default: vcf)")
	fs.StringVar(&format, "format", "", "Output format: vcf, tab, vep (default: vcf)")
	fs.BoolVar(&parsed, "parsed", false, "Structured JSON output (mutually exclusive with --format)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.StringVar(&catalogPath, "catalog", "", "Record this run in a DuckDB catalog (default: catalog.path config)")
	fs.BoolVar(&verbose, "verbose", false, "Verbose logging to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Extract a line range or region from a VEP-annotated VCF file.

Usage:
  vepslice slice [options] <input-file>

Arguments:
  <input-file>  Input VCF file, plain or gzipped (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vepslice slice input.vcf.gz
  vepslice slice --from 100 --to 200 -f vep input.vcf.gz
  vepslice slice -l 12:25245000-25246000 -f tab input.vcf.gz
  vepslice slice --filter "SIFT is deleterious" --parsed input.vcf.gz
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	inputPath := fs.Arg(0)

	opts := pipeline.Options{
		From:     from,
		To:       to,
		Location: location,
		Filter:   filter,
		Format:   format,
		Parsed:   parsed,
	}
	if _, err := opts.Mode(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fs.Usage()
		return ExitUsage
	}

	// Acquire the line source: filter program, indexed retrieval, or the
	// file itself.
	ctx := context.Background()
	var src source.LineSource
	var err error
	switch {
	case filter != "":
		src, err = source.NewFilter(ctx, viper.GetString("filter.bin"), inputPath, filter, from, to)
	case location != "":
		src, err = source.NewIndexed(ctx, viper.GetString("tabix.bin"), inputPath, location)
	default:
		src, err = source.Open(inputPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	// Output destination
	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			src.Close()
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer f.Close()
		out = f
	}

	enc := &countingEncoder{Encoder: newEncoder(opts, out)}

	driver := pipeline.NewDriver()
	if verbose {
		logger, lerr := zap.NewDevelopment()
		if lerr == nil {
			defer logger.Sync()
			driver.SetLogger(logger)
		}
	}

	started := time.Now()
	if err := driver.Run(src, enc, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if catalogPath == "" {
		catalogPath = viper.GetString("catalog.path")
	}
	if catalogPath != "" {
		if err := recordRun(catalogPath, inputPath, opts, enc, started); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
		}
	}

	return ExitSuccess
}

// newEncoder builds the encoder for the resolved output mode. Options are
// validated before this point, so the mode resolution cannot fail here.
func newEncoder(opts pipeline.Options, out io.Writer) output.Encoder {
	mode, _ := opts.Mode()
	switch mode {
	case pipeline.ModeTab:
		return output.NewTabEncoder(out)
	case pipeline.ModeVEP:
		return output.NewVEPEncoder(out)
	case pipeline.ModeStructured:
		jenc := json.NewEncoder(out)
		return output.NewStructuredEncoder(
			func(hb *vcf.HeaderBundle) error {
				return jenc.Encode(map[string]any{"header": hb})
			},
			func(rows []vcf.Row) error {
				return jenc.Encode(map[string]any{"rows": rows})
			},
		)
	default:
		return output.NewRawEncoder(out)
	}
}

// countingEncoder wraps an encoder, counting emitted units and capturing the
// header bundle for the catalog.
type countingEncoder struct {
	output.Encoder
	header *vcf.HeaderBundle
	units  int64
}

func (c *countingEncoder) EncodeHeader(hb *vcf.HeaderBundle) error {
	c.header = hb
	return c.Encoder.EncodeHeader(hb)
}

func (c *countingEncoder) EncodeRows(rows []vcf.Row) error {
	c.units += int64(len(rows))
	return c.Encoder.EncodeRows(rows)
}

// EncodeLine forwards raw lines when the wrapped encoder supports them,
// which keeps raw mode working through the counting wrapper.
func (c *countingEncoder) EncodeLine(line string) error {
	le, ok := c.Encoder.(output.LineEncoder)
	if !ok {
		return fmt.Errorf("raw output requires a line encoder, got %T", c.Encoder)
	}
	c.units++
	return le.EncodeLine(line)
}

// recordRun appends this invocation to the run catalog.
func recordRun(catalogPath, inputPath string, opts pipeline.Options, enc *countingEncoder, started time.Time) error {
	store, err := duckdb.Open(catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	mode, _ := opts.Mode()
	if err := store.RecordRun(duckdb.Run{
		StartedAt:    started,
		File:         inputPath,
		Location:     opts.Location,
		Filter:       opts.Filter,
		Format:       mode.String(),
		From:         opts.From,
		To:           opts.To,
		UnitsEmitted: enc.units,
		Duration:     time.Since(started),
	}); err != nil {
		return err
	}

	if enc.header != nil && len(enc.header.Descriptions) > 0 {
		return store.RecordHeaderFields(inputPath, enc.header.Descriptions)
	}
	return nil
}
