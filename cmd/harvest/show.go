package main

import (
	"fmt"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Archive.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	pages, err := deps.Archive.FindContent(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "  seed:     %s\n", run.SeedURL)
	fmt.Fprintf(deps.Stdout, "  started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(deps.Stdout, "  finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	printStats(deps, run.Stats)

	if len(pages) > 0 {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprint(deps.Stdout, crawl.FormatArtifact(pages))
	}
	return nil
}
