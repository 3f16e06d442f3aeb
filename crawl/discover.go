// Package crawl orchestrates site-content discovery: it drives the
// frontier through static and dynamic harvest phases, coordinates the
// renderer pool and loading strategies, extracts content units and
// aggregates them into the persisted artifact.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/scrapeworks/harvest"
	hgoquery "github.com/scrapeworks/harvest/goquery"
	"github.com/scrapeworks/harvest/strategy"
)

// Phase identifies where a run is in its lifecycle. Phases advance in one
// direction only.
type Phase string

// Run phases in order.
const (
	PhaseSeeding  Phase = "seeding"
	PhaseStatic   Phase = "static_harvest"
	PhaseDynamic  Phase = "dynamic_harvest"
	PhaseExtract  Phase = "extracting"
	PhaseDraining Phase = "draining"
	PhaseDone     Phase = "done"
)

// Frontier sizing and loop-control defaults.
const (
	// frontierExpectedURLs is the expected URL count for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable dedup false positive rate.
	frontierFalsePositiveRate = 0.01
	// DefaultStaticWorkers is the plain-fetch worker count.
	DefaultStaticWorkers = 10
	// DefaultUnchangedThreshold ends dynamic harvest after this many
	// consecutive strategy advances that surface nothing new.
	DefaultUnchangedThreshold = 3
)

// Discoverer walks a site from a seed URL and fills the session State with
// every reachable in-scope resource. Static harvest follows plain links
// with concurrent fetches; dynamic harvest drives a rendering session
// through loading strategies to surface content that only exists after
// script execution.
type Discoverer struct {
	Fetcher     harvest.Fetcher
	Sitemaps    harvest.SitemapService // optional; nil skips sitemap merge
	Sessions    harvest.SessionPool    // optional; nil disables dynamic harvest
	Strategies  *strategy.Set
	Limiter     *DomainLimiter
	Logger      *slog.Logger
	Workers     int // static fetch workers, default DefaultStaticWorkers
	RetryDelays []time.Duration
	// UnchangedThreshold overrides DefaultUnchangedThreshold when > 0.
	UnchangedThreshold int
	// OnPhase is called as the run moves between phases.
	OnPhase func(Phase)
}

// fetchResult is the outcome of one static page fetch.
type fetchResult struct {
	url   string
	depth int
	links []string
	err   error
}

// Discover runs the seeding, static and dynamic phases against the state.
// Per-URL failures are recorded in the stats and never abort the run; the
// returned error is reserved for an invalid request or a canceled context.
func (d *Discoverer) Discover(ctx context.Context, req *harvest.Request, state *State) error {
	seed, err := harvest.Normalize(req.SeedURL, false)
	if err != nil {
		return err
	}
	denylist := req.DenylistOrDefault()

	d.phase(PhaseSeeding)
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(seed, 0)
	state.AddResource(harvest.Resource{
		URL:          seed,
		Kind:         harvest.Classify(seed),
		DiscoveredAt: time.Now(),
		Source:       "seed",
	})
	d.mergeSitemap(ctx, req, state, frontier, seed, denylist)

	d.phase(PhaseStatic)
	if err := d.staticHarvest(ctx, req, state, frontier, seed, denylist); err != nil {
		return err
	}

	if d.dynamicEnabled(req) {
		d.phase(PhaseDynamic)
		d.dynamicHarvest(ctx, req, state, seed, denylist)
	} else {
		d.log().Debug("dynamic harvest skipped", "url", seed, "reason", d.dynamicDisabledReason())
	}

	return ctx.Err()
}

func (d *Discoverer) phase(p Phase) {
	if d.OnPhase != nil {
		d.OnPhase(p)
	}
}

func (d *Discoverer) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Discoverer) dynamicEnabled(req *harvest.Request) bool {
	if d.Sessions == nil || d.Strategies == nil {
		return false
	}
	return req.DynamicAttempts == nil || *req.DynamicAttempts > 0
}

func (d *Discoverer) dynamicDisabledReason() string {
	if d.Sessions == nil || d.Strategies == nil {
		return "no renderer configured"
	}
	return "attempt limit is zero"
}

// mergeSitemap folds sitemap URLs into the state and frontier. A missing
// or broken sitemap is logged and ignored; page links carry discovery.
func (d *Discoverer) mergeSitemap(ctx context.Context, req *harvest.Request, state *State, frontier *Frontier, seed string, denylist []string) {
	if d.Sitemaps == nil {
		return
	}
	urls, err := d.Sitemaps.DiscoverURLs(ctx, seed, nil)
	if err != nil {
		d.log().Warn("sitemap discovery failed", "seed", seed, "error", err)
		return
	}
	for _, raw := range urls {
		d.admit(req, state, frontier, raw, 1, seed, denylist, "sitemap")
	}
}

// admit canonicalizes a raw URL and records it if it is in scope and the
// resource cap allows. Crawlable kinds within the depth bound are also
// queued for static harvest. Returns true if a new resource was recorded.
func (d *Discoverer) admit(req *harvest.Request, state *State, frontier *Frontier, rawURL string, depth int, seed string, denylist []string, source string) bool {
	canon, err := harvest.Normalize(rawURL, false)
	if err != nil {
		return false
	}
	if !harvest.InScope(canon, seed, denylist) {
		return false
	}
	if req.MaxURLs > 0 && state.Discovered() >= req.MaxURLs {
		return false
	}

	kind := harvest.Classify(canon)
	added := state.AddResource(harvest.Resource{
		URL:          canon,
		Kind:         kind,
		DiscoveredAt: time.Now(),
		Source:       source,
	})
	if !added {
		return false
	}

	if frontier != nil && crawlable(kind) && depth <= req.MaxDepth {
		frontier.Push(canon, depth)
	}
	return true
}

// crawlable reports whether a resource of this kind is itself fetched for
// further links. Documents and images are leaves; API endpoints are
// recorded but not walked.
func crawlable(kind harvest.ResourceKind) bool {
	return kind == harvest.KindPage || kind == harvest.KindArticle
}

// staticHarvest drains the frontier with a pool of plain-fetch workers.
// The coordinator owns the frontier and the state; workers only fetch and
// parse, so no locking is needed beyond the structures themselves.
func (d *Discoverer) staticHarvest(ctx context.Context, req *harvest.Request, state *State, frontier *Frontier, seed string, denylist []string) error {
	workers := d.Workers
	if workers <= 0 {
		workers = DefaultStaticWorkers
	}

	workCh := make(chan frontierItem, workers)
	resultCh := make(chan fetchResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				result := d.fetchPage(ctx, item)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	handle := func(res fetchResult) {
		state.MarkVisited(res.url)
		if res.err != nil {
			state.AddSkipped()
			d.log().Warn("static fetch failed", "url", res.url, "error", res.err)
			return
		}
		for _, link := range res.links {
			d.admit(req, state, frontier, link, res.depth+1, seed, denylist, "static")
		}
	}

	pending := 0
	var next *frontierItem
	if url, depth, ok := frontier.Pop(); ok {
		next = &frontierItem{url: url, depth: depth}
	}

coordinator:
	for {
		if next == nil && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next != nil {
			select {
			case <-ctx.Done():
				break coordinator
			case workCh <- *next:
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(res)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinator
			case res, ok := <-resultCh:
				if !ok {
					break coordinator
				}
				pending--
				handle(res)
			}
		}

		if next == nil {
			if url, depth, ok := frontier.Pop(); ok {
				next = &frontierItem{url: url, depth: depth}
			}
		}
	}

	close(workCh)

	// Let in-flight fetches finish and record their results.
	for res := range resultCh {
		handle(res)
	}

	return nil
}

// fetchPage rate-limits, fetches with retry and harvests candidate links
// from one frontier URL.
func (d *Discoverer) fetchPage(ctx context.Context, item frontierItem) fetchResult {
	result := fetchResult{url: item.url, depth: item.depth}

	parsed, err := url.Parse(item.url)
	if err != nil {
		result.err = err
		return result
	}
	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx, parsed.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	body, err := FetchWithRetryDelays(ctx, item.url, d.Fetcher.Fetch, d.Logger, delays)
	if err != nil {
		result.err = err
		return result
	}

	links, err := hgoquery.HarvestLinks(body, item.url)
	if err == nil {
		result.links = links
	}
	return result
}

// dynamicHarvest loads the seed in a rendering session and drives the
// strategy set until the discovered set stops growing, the attempt budget
// runs out, or no strategy applies. A crashed session is respawned and the
// navigation retried once; a second failure ends the phase. Dynamic
// failures never abort the run.
func (d *Discoverer) dynamicHarvest(ctx context.Context, req *harvest.Request, state *State, seed string, denylist []string) {
	sess, err := d.navigateSession(ctx, state, seed)
	if err != nil {
		d.log().Warn("dynamic harvest unavailable", "seed", seed, "error", err)
		return
	}
	defer func() {
		if sess != nil {
			d.Sessions.Release(sess)
		}
	}()

	threshold := d.UnchangedThreshold
	if threshold <= 0 {
		threshold = DefaultUnchangedThreshold
	}

	unchanged := 0
	advances := 0
	for {
		if ctx.Err() != nil {
			return
		}
		if req.DynamicAttempts != nil && advances >= *req.DynamicAttempts {
			return
		}

		name, _ := d.Strategies.Advance(ctx, sess)
		if name == "" {
			return
		}
		advances++

		body, err := sess.HTML(ctx)
		if err != nil {
			// Session crashed mid-harvest: respawn, reload, retry once.
			d.Sessions.Release(sess)
			sess = nil
			sess, err = d.navigateSession(ctx, state, seed)
			if err != nil {
				d.log().Warn("renderer lost during dynamic harvest", "seed", seed, "error", err)
				return
			}
			continue
		}

		found := 0
		if links, err := hgoquery.HarvestLinks(body, seed); err == nil {
			for _, link := range links {
				if d.admit(req, state, nil, link, 0, seed, denylist, name) {
					found++
				}
			}
		}

		if found == 0 {
			unchanged++
			if unchanged >= threshold {
				return
			}
		} else {
			unchanged = 0
		}
	}
}

// navigateSession acquires a session and loads the seed, retrying once
// with a fresh session if the first navigation fails.
func (d *Discoverer) navigateSession(ctx context.Context, state *State, seed string) (harvest.Session, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		sess, err := d.Sessions.Acquire(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if err := sess.Navigate(ctx, seed); err != nil {
			d.Sessions.Release(sess)
			lastErr = err
			continue
		}
		state.AddRenders()
		return sess, nil
	}
	return nil, lastErr
}
