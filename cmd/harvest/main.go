package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/scrapeworks/harvest/crawl"
	"github.com/scrapeworks/harvest/fingerprint"
	"github.com/scrapeworks/harvest/fs"
	hhttp "github.com/scrapeworks/harvest/http"
	"github.com/scrapeworks/harvest/rod"
	hslog "github.com/scrapeworks/harvest/slog"
	"github.com/scrapeworks/harvest/sqlite"
	"github.com/scrapeworks/harvest/strategy"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the run archive, opened on demand.
	DB *sqlite.DB

	// Rendering session pool, created for the run command.
	Pool *rod.Pool
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Pool != nil {
		m.Pool.Drain()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'harvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// kongCtx.Command() is e.g. "run <url>"; the first word names the
	// selected command regardless of flag placement.
	switch strings.Fields(kongCtx.Command())[0] {
	case "run":
		if err := m.wireRun(cli, deps); err != nil {
			return err
		}
	case "show":
		archive, err := m.openArchive(cli.Show.Archive, deps.Logger)
		if err != nil {
			return err
		}
		deps.Archive = archive
	}

	return kongCtx.Run(deps)
}

// wireRun assembles the full pipeline for the run command: browser pool,
// fetcher, sitemap service, strategies, deduper, and optionally the
// archive.
func (m *Main) wireRun(cli *CLI, deps *Dependencies) error {
	pool, err := rod.NewPool(cli.Run.Sessions)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.Pool = pool

	var archive *hslog.LoggingRunArchive
	if cli.Run.Archive != "" {
		a, err := m.openArchive(cli.Run.Archive, deps.Logger)
		if err != nil {
			return err
		}
		archive = a
		deps.Archive = a
	}

	harvester := &crawl.Harvester{
		Fetcher:        hslog.NewLoggingFetcher(hhttp.NewFetcher(), deps.Logger),
		Sitemaps:       hslog.NewLoggingSitemapService(hhttp.NewSitemapService(nil), deps.Logger),
		Sessions:       rod.NewLoggingPool(pool, deps.Logger),
		Strategies:     strategy.NewSet(strategy.DefaultSettle),
		Deduper:        fingerprint.NewSet(),
		Limiter:        crawl.NewDomainLimiter(cli.Run.Rate),
		Logger:         deps.Logger,
		StaticWorkers:  cli.Run.StaticWorkers,
		ExtractWorkers: cli.Run.ExtractWorkers,
	}
	if archive != nil {
		harvester.Archive = archive
	}

	deps.Harvester = harvester
	deps.Writer = fs.NewWriter(cli.Run.Out)
	return nil
}

// openArchive opens the SQLite database at path and wraps it in the
// logging decorator.
func (m *Main) openArchive(path string, logger *slog.Logger) (*hslog.LoggingRunArchive, error) {
	if path == "" {
		path = defaultArchivePath()
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open archive at %q: %w", path, err)
	}
	return hslog.NewLoggingRunArchive(sqlite.NewRunArchive(m.DB), logger), nil
}

func defaultArchivePath() string {
	if path := os.Getenv("HARVEST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "harvest.db"
	}
	dir := filepath.Join(home, ".harvest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "harvest.db")
}
