package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	req, err := c.request()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	ctx := deps.Ctx
	if c.Timeout != "" && c.Timeout != "0" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: invalid timeout %q\n", c.Timeout)
			return err
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Progress goes to stderr so stdout stays clean for results.
	var mu sync.Mutex
	lastPhase := crawl.Phase("")
	deps.Harvester.Progress = func(ev crawl.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Phase != lastPhase {
			lastPhase = ev.Phase
			fmt.Fprintf(deps.Stderr, "%s\n", phaseLabel(ev.Phase))
		}
		if ev.Phase == crawl.PhaseExtract && ev.Message != "" {
			fmt.Fprintf(deps.Stderr, "  %s\n", crawl.TruncateURL(ev.Message, 76))
		}
		if ev.Phase == crawl.PhaseDone && ev.Message != "" {
			fmt.Fprintf(deps.Stderr, "  %s\n", ev.Message)
		}
	}

	result, err := deps.Harvester.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(result.Pages) > 0 {
		path, err := deps.Writer.WriteArtifact(req.SeedURL, result.Pages)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
	}

	printStats(deps, result.Stats)
	return nil
}

// request translates the parsed flags into a discovery request.
func (c *RunCmd) request() (*harvest.Request, error) {
	exclude, err := harvest.ParseExcludeSet(c.Exclude)
	if err != nil {
		return nil, err
	}

	req := &harvest.Request{
		SeedURL:         c.URL,
		MaxDepth:        c.MaxDepth,
		MaxURLs:         c.MaxURLs,
		DynamicAttempts: c.DynamicAttempts,
		Exclude:         exclude,
		Denylist:        c.Deny,
	}

	if c.PublishedAfter != "" {
		after, err := time.Parse("2006-01-02", c.PublishedAfter)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "invalid published-after date %q, want YYYY-MM-DD", c.PublishedAfter)
		}
		req.PublishedAfter = &after
	}

	return req, nil
}

// phaseLabel maps a phase to the line printed when the run enters it.
func phaseLabel(p crawl.Phase) string {
	switch p {
	case crawl.PhaseSeeding:
		return "Seeding..."
	case crawl.PhaseStatic:
		return "Static harvest..."
	case crawl.PhaseDynamic:
		return "Dynamic harvest..."
	case crawl.PhaseExtract:
		return "Extracting..."
	case crawl.PhaseDraining:
		return "Draining..."
	case crawl.PhaseDone:
		return "Done."
	}
	return string(p)
}

func printStats(deps *Dependencies, stats harvest.Stats) {
	fmt.Fprintf(deps.Stdout,
		"  %d discovered, %d visited, %d extracted, %d units (%d duplicates dropped, %d skipped, %d errors)\n",
		stats.Discovered, stats.Visited, stats.Extracted, stats.Units,
		stats.Duplicates, stats.Skipped, stats.Errored)
}
