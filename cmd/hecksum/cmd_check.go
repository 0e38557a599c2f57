package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/hecksum/hecksum/internal/domain/entities"
	"github.com/hecksum/hecksum/internal/domain/interfaces"
	ifgateways "github.com/hecksum/hecksum/internal/domain/interfaces/gateways"
	"github.com/hecksum/hecksum/internal/domain-adapters/gateways"
	"github.com/hecksum/hecksum/internal/domain-adapters/references"
	"github.com/hecksum/hecksum/internal/domain/services"
	"github.com/hecksum/hecksum/internal/external-adapters/sqlite"
	"github.com/hecksum/hecksum/internal/external-adapters/yaml"
)

// checkOutcome is what one worker hands back to the run loop.
type checkOutcome struct {
	project entities.Project
	check   *entities.Check
	err     error
}

func runCheck(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var (
		all          = fs.Bool("all", false, "Check all tracked projects")
		dryRun       = fs.Bool("dry-run", false, "Resolve and verify but do not report to the tracking service")
		projectsFile = fs.String("projects-file", "", "Path to a YAML projects file extending the built-in registry")
		trackerURL   = fs.String("tracker-url", gateways.DefaultTrackerURL, "Tracking service records endpoint")
		fetchTimeout = fs.Duration("fetch-timeout", gateways.DefaultFetchTimeout, "Timeout for discovery requests")
		dlTimeout    = fs.Duration("download-timeout", gateways.DefaultDownloadTimeout, "Timeout for artifact downloads")
		concurrency  = fs.Int("concurrency", 4, "Number of projects verified in parallel")
		historyDB    = fs.String("history-db", "", "Record results in a local SQLite file (disabled when empty)")
		verbose      = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: hecksum check [options] [project...]

Verify that each project's published artifact matches its advertised
checksum and report Passing/Failing/Error to the tracking service.

If no projects are specified and --all is not set, checks all projects.
Reporting requires the AIRTABLE_API_KEY environment variable.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  hecksum check --all
  hecksum check transmission-mac doppler-linux-arm64
  hecksum check --all --dry-run --verbose
  hecksum check --all --history-db ~/.hecksum/history.db
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	logger := &interfaces.StderrLogger{Verbose: *verbose}
	fetch := gateways.NewHTTPFetcherWithTimeouts(*fetchTimeout, *dlTimeout)

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

	var tracker ifgateways.Tracker
	if !*dryRun {
		apiKey := os.Getenv("AIRTABLE_API_KEY")
		if apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: AIRTABLE_API_KEY is not set (use --dry-run to skip reporting)\n")
			os.Exit(1)
		}
		tracker = gateways.NewAirtableTracker(*trackerURL, apiKey)
	}

	var history *sqlite.HistoryStore
	if *historyDB != "" {
		history, err = sqlite.Open(*historyDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		//nolint:errcheck // Defer close on history store
		defer history.Close()
	}

	service := services.NewCheckService(registry, fetch, logger)
	outcomes := runChecks(ctx, service, projects, *concurrency)

	failed := false
	for _, out := range outcomes {
		if out.err != nil {
			logger.Error("check failed", interfaces.F("project", out.project.Name), interfaces.F("error", out.err))
			failed = true
			continue
		}

		fmt.Printf("%-24s %s\n", out.project.Name, out.check.Status)

		if history != nil {
			if err := history.Record(ctx, out.check); err != nil {
				logger.Warn("history record failed", interfaces.F("project", out.project.Name), interfaces.F("error", err))
			}
		}
		if tracker != nil {
			// At-most-once: a failed submission is not retried, the whole
			// run is rerun instead.
			if err := tracker.SubmitCheck(ctx, out.check); err != nil {
				logger.Error("report failed", interfaces.F("project", out.project.Name), interfaces.F("error", err))
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

// runChecks fans projects out over a bounded worker pool. Projects are
// independent and the registry is immutable, so order does not matter;
// results come back indexed to keep output deterministic.
func runChecks(ctx context.Context, service *services.CheckService, projects []entities.Project, concurrency int) []checkOutcome {
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]checkOutcome, len(projects))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, project := range projects {
		wg.Add(1)
		go func(i int, project entities.Project) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			check, err := service.Create(ctx, project)
			outcomes[i] = checkOutcome{project: project, check: check, err: err}
		}(i, project)
	}
	wg.Wait()

	return outcomes
}

// buildRegistry assembles the read-only project registry: built-in wiring
// first, then any projects-file entries, which may override by name.
func buildRegistry(fetch ifgateways.Fetcher, projectsFile string) (*references.Registry, error) {
	entries := references.Builtin(fetch)
	if projectsFile != "" {
		loaded, err := yaml.LoadProjects(fetch, projectsFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return references.NewRegistry(entries...), nil
}

// selectProjects resolves the positional arguments into tracked projects.
func selectProjects(ctx context.Context, registry *references.Registry, all bool, names []string) ([]entities.Project, error) {
	if all || len(names) == 0 {
		return registry.ListProjects(ctx)
	}

	projects := make([]entities.Project, 0, len(names))
	for _, name := range names {
		project, err := registry.GetProject(ctx, name)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}
