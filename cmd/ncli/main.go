// Command ncli is the N language's project driver: resolve a project's
// modules and report diagnostics.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "ncli",
		Usage: "resolve and inspect N projects",
		Commands: []*cli.Command{
			checkCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
