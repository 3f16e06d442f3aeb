package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/strategy"
)

// DefaultExtractWorkers is the number of concurrent extraction workers
// sharing the renderer pool.
const DefaultExtractWorkers = 3

// Harvester runs one complete discovery-and-extraction pass: it drives
// the Discoverer through its phases, then extracts every discovered
// resource through a bounded worker pool, and finally aggregates the
// units into per-resource groups in discovery order.
type Harvester struct {
	Fetcher    harvest.Fetcher
	Sitemaps   harvest.SitemapService // optional
	Sessions   harvest.SessionPool
	Strategies *strategy.Set
	Deduper    harvest.Deduper
	Limiter    *DomainLimiter
	Archive    harvest.RunArchive // optional
	Logger     *slog.Logger

	StaticWorkers  int
	ExtractWorkers int
	RetryDelays    []time.Duration
	Progress       ProgressFunc
}

// Result is the outcome of one run: the aggregated content and the final
// counters. Pages holds only resources that yielded at least one unit;
// an empty Pages means the run discovered no content.
type Result struct {
	Pages []harvest.PageContent
	Stats harvest.Stats
}

// ProgressEvent reports run progress to the caller.
type ProgressEvent struct {
	Time    time.Time
	Phase   Phase
	Message string
	Stats   harvest.Stats
}

// ProgressFunc is a callback for progress events. It is invoked from
// multiple goroutines and must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

// Run executes the request. Per-resource failures surface as error units
// inside the result; the returned error covers only an invalid request, a
// canceled context, or an unusable renderer pool.
func (h *Harvester) Run(ctx context.Context, req *harvest.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	state := NewState()
	emit := func(phase Phase, msg string) {
		if h.Progress != nil {
			h.Progress(ProgressEvent{
				Time:    time.Now(),
				Phase:   phase,
				Message: msg,
				Stats:   state.Stats(),
			})
		}
	}

	discoverer := &Discoverer{
		Fetcher:     h.Fetcher,
		Sitemaps:    h.Sitemaps,
		Sessions:    h.Sessions,
		Strategies:  h.Strategies,
		Limiter:     h.Limiter,
		Logger:      h.Logger,
		Workers:     h.StaticWorkers,
		RetryDelays: h.RetryDelays,
		OnPhase:     func(p Phase) { emit(p, "") },
	}
	if err := discoverer.Discover(ctx, req, state); err != nil {
		return nil, err
	}

	resources := state.Resources()
	extractor := &Extractor{
		Sessions:   h.Sessions,
		Strategies: h.Strategies,
		Deduper:    h.Deduper,
		Logger:     h.Logger,
	}

	// Workers write into their own slot, so aggregation keeps discovery
	// order and units for a resource stay contiguous.
	pages := make([]harvest.PageContent, len(resources))
	workers := h.ExtractWorkers
	if workers <= 0 {
		workers = DefaultExtractWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, res := range resources {
		i, res := i, res
		g.Go(func() error {
			units := extractor.Extract(gctx, res, req, state)
			pages[i] = harvest.PageContent{Resource: res, Units: units}
			emit(PhaseExtract, res.URL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	emit(PhaseDraining, "")

	var out []harvest.PageContent
	for _, page := range pages {
		if len(page.Units) > 0 {
			out = append(out, page)
		}
	}

	result := &Result{Pages: out, Stats: state.Stats()}

	if h.Archive != nil {
		h.archive(ctx, req, result, started)
	}

	if len(out) == 0 {
		emit(PhaseDone, "no content discovered")
	} else {
		emit(PhaseDone, "")
	}
	return result, nil
}

// archive stores the run outputs; archive failures are logged, never fatal.
func (h *Harvester) archive(ctx context.Context, req *harvest.Request, result *Result, started time.Time) {
	seed, err := harvest.Normalize(req.SeedURL, false)
	if err != nil {
		seed = req.SeedURL
	}
	run := &harvest.Run{
		ID:         uuid.NewString(),
		SeedURL:    seed,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Stats:      result.Stats,
	}
	if err := h.Archive.SaveRun(ctx, run, result.Pages); err != nil {
		h.log().Warn("archiving run failed", "run", run.ID, "error", err)
	}
}

func (h *Harvester) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
