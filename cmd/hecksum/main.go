package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "check":
		runCheck(ctx, os.Args[2:])
	case "resolve":
		runResolve(ctx, os.Args[2:])
	case "list":
		runList(ctx, os.Args[2:])
	case "history":
		runHistory(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hecksum - Verify published artifacts against their advertised checksums

Usage:
  hecksum <command> [options]

Commands:
  check     Verify projects and report results to the tracking service
  resolve   Resolve publisher references without downloading artifacts
  list      List tracked projects
  history   Show recent locally recorded check results

Use "hecksum <command> --help" for more information about a command.`)
}
