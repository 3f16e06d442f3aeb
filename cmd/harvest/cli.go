package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
	"github.com/scrapeworks/harvest/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Harvester *crawl.Harvester
	Writer    *fs.Writer
	Archive   harvest.RunArchive
	Logger    *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run  RunCmd  `cmd:"" help:"Discover and extract a site's content"`
	Show ShowCmd `cmd:"" help:"Print the archived artifact for a run"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URL string `arg:"" help:"Seed URL discovery starts from"`

	MaxDepth        int      `default:"2" help:"Link-following depth during static harvest (0 harvests only the seed)"`
	MaxURLs         int      `default:"0" help:"Cap on discovered resources (0 means no cap)"`
	DynamicAttempts *int     `help:"Budget of dynamic strategy advances (0 disables dynamic harvest, unset means unbounded)"`
	Exclude         []string `short:"x" help:"Content categories to drop: text, links, images (repeatable)"`
	PublishedAfter  string   `help:"Drop text from pages published before this date (YYYY-MM-DD)"`
	Deny            []string `help:"Path patterns to exclude, overriding the default denylist (repeatable)"`

	Sessions       int     `default:"3" env:"HARVEST_SESSIONS" help:"Rendering sessions in the browser pool"`
	StaticWorkers  int     `default:"10" env:"HARVEST_STATIC_WORKERS" help:"Concurrent plain-HTTP fetch workers"`
	ExtractWorkers int     `default:"3" env:"HARVEST_EXTRACT_WORKERS" help:"Concurrent extraction workers"`
	Rate           float64 `default:"2.0" help:"Max requests per second per domain"`
	Timeout        string  `default:"0" env:"HARVEST_TIMEOUT" help:"Overall run timeout, e.g. 10m (0 means none)"`

	Out     string `short:"o" default:"." help:"Directory the artifact is written to"`
	Archive string `help:"SQLite database path to archive the run in (empty disables archiving)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID      string `arg:"" help:"Run ID"`
	Archive string `help:"SQLite database path (defaults to $HARVEST_DB or ~/.harvest/harvest.db)"`
}
