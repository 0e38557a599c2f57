package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hecksum/hecksum/internal/domain-adapters/gateways"
)

// resolveInfo is one project's resolved reference, for operator inspection
// when a publisher changes its page format.
type resolveInfo struct {
	Project     string `json:"project"`
	Populated   bool   `json:"populated"`
	Algorithm   string `json:"algorithm,omitempty"`
	ChecksumURL string `json:"checksum_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runResolve(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	var (
		all          = fs.Bool("all", false, "Resolve all tracked projects")
		jsonOutput   = fs.Bool("json", true, "Output results as JSON (default)")
		projectsFile = fs.String("projects-file", "", "Path to a YAML projects file extending the built-in registry")
		fetchTimeout = fs.Duration("fetch-timeout", gateways.DefaultFetchTimeout, "Timeout for discovery requests")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: hecksum resolve [options] [project...]

Resolve each project's reference (expected checksum and download URL) by
scraping its publisher, without downloading any artifact. Useful for
debugging publisher-format drift.

If no projects are specified and --all is not set, resolves all projects.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  hecksum resolve --all
  hecksum resolve codecov-bash-uploader --json=false
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	fetch := gateways.NewHTTPFetcherWithTimeouts(*fetchTimeout, gateways.DefaultDownloadTimeout)
	registry, err := buildRegistry(fetch, *projectsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	projects, err := selectProjects(ctx, registry, *all, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	results := make([]resolveInfo, 0, len(projects))
	for _, project := range projects {
		info := resolveInfo{Project: project.Name}
		ref, err := registry.Resolve(ctx, project)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Populated = ref.Populated()
			info.Algorithm = ref.Algorithm
			info.ChecksumURL = ref.ChecksumURL
			info.DownloadURL = ref.DownloadURL
			info.Checksum = ref.Checksum
		}
		results = append(results, info)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, info := range results {
		switch {
		case info.Error != "":
			fmt.Printf("%-24s error: %s\n", info.Project, info.Error)
		case !info.Populated:
			fmt.Printf("%-24s partial (checksum_url=%s download_url=%s)\n",
				info.Project, info.ChecksumURL, info.DownloadURL)
		default:
			fmt.Printf("%-24s %s:%s\n", info.Project, info.Algorithm, info.Checksum)
		}
	}
}
