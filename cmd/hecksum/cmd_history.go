package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hecksum/hecksum/internal/external-adapters/sqlite"
)

func runHistory(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	var (
		dbPath = fs.String("db", "hecksum.db", "Path to the local history database")
		limit  = fs.Int("limit", 20, "Number of rows to show")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: hecksum history [options]

Show recent check results recorded locally by "hecksum check --history-db".

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	//nolint:errcheck // Defer close on history store
	defer store.Close()

	rows, err := store.Recent(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Println("No recorded checks.")
		return
	}

	for _, row := range rows {
		fmt.Printf("%s  %-24s %-8s %s\n",
			row.CreatedAt.Format("2006-01-02 15:04:05"), row.Project, row.Status, row.DownloadURL)
	}
}
