package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hecksum/hecksum/internal/domain-adapters/gateways"
)

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	projectsFile := fs.String("projects-file", "", "Path to a YAML projects file extending the built-in registry")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: hecksum list [options]

List tracked projects and their tracking-service record ids.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	fetch := gateways.NewHTTPFetcher()
	registry, err := buildRegistry(fetch, *projectsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	projects, err := registry.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, project := range projects {
		fmt.Printf("%-24s %s\n", project.Name, project.TrackerID)
	}
}
