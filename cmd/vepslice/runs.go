package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/viper"

	"github.com/vepslice/vepslice/internal/duckdb"
)

func runRuns(args []string) int {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)

	var (
		limit       int
		catalogPath string
	)
	fs.IntVar(&limit, "n", 20, "Number of runs to show")
	fs.StringVar(&catalogPath, "catalog", "", "Catalog path (default: catalog.path config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `List recent slice runs recorded in the catalog.

Usage:
  vepslice runs [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if catalogPath == "" {
		catalogPath = viper.GetString("catalog.path")
	}
	if catalogPath == "" {
		fmt.Fprintf(os.Stderr, "Error: no catalog configured\n")
		fmt.Fprintf(os.Stderr, "Hint: set one with: vepslice config set catalog.path ~/.vepslice/catalog.duckdb\n")
		return ExitError
	}

	store, err := duckdb.Open(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		return ExitError
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tFILE\tLOCATION\tFILTER\tFORMAT\tUNITS\tDURATION")
	for _, r := range runs {
		location := r.Location
		if location == "" {
			location = "-"
		}
		filter := r.Filter
		if filter == "" {
			filter = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.File, location, filter, r.Format, r.UnitsEmitted, r.Duration)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}
