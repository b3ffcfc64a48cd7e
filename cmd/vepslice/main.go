// Package main provides the vepslice command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("vepslice version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "slice":
		return runSlice(args[1:])
	case "runs":
		return runRuns(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

// initConfig loads ~/.vepslice.yaml and VEPSLICE_* environment overrides.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".vepslice")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("VEPSLICE")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // missing config file is fine
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vepslice - slice and convert VEP-annotated VCF files

Usage:
  vepslice [options] <command> [arguments]

Commands:
  slice       Extract a line range or region from an annotated VCF
  runs        List recent slice runs from the catalog
  config      Manage vepslice configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Stream a whole file as-is
  vepslice slice input.vcf.gz

  # Rows 100-200 as a VEP annotation table
  vepslice slice --from 100 --to 200 -f vep input.vcf.gz

  # A region, via the tabix index, flattened to tab-delimited text
  vepslice slice -l 12:25245000-25246000 -f tab input.vcf.gz

  # Pre-filter through filter_vep, structured JSON output
  vepslice slice --filter "Consequence is missense_variant" --parsed input.vcf.gz

For more information on a command, use:
  vepslice <command> --help
`)
}
