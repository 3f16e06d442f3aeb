package crawl

import (
	"context"
	"log/slog"

	"github.com/scrapeworks/harvest"
	hgoquery "github.com/scrapeworks/harvest/goquery"
	"github.com/scrapeworks/harvest/strategy"
)

// consentSelectors match the accept buttons of the consent-manager
// products seen in the wild, plus generic fallbacks. Dismissal is
// best-effort; a consent banner that survives is filtered later by the
// extraction exclusion rules.
var consentSelectors = []string{
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	"#onetrust-accept-btn-handler",
	".cookie-accept",
	"#accept-cookies",
	"[aria-label='Accept cookies']",
	".consent-accept",
	".accept-all",
	"[data-testid='cookie-accept']",
}

// Extractor turns one discovered resource into content units using a
// rendering session from the shared pool. Failures are contained: a
// resource that cannot be rendered or parsed yields a single error unit
// and the run continues.
type Extractor struct {
	Sessions   harvest.SessionPool
	Strategies *strategy.Set
	Deduper    harvest.Deduper
	Logger     *slog.Logger
}

// Extract produces the content units for a resource, already filtered by
// the request's exclusions, the published-after date and the session
// deduplicator. Documents and images short-circuit to a single reference
// unit without touching the renderer. API endpoints are never rendered:
// they are recorded during discovery and surface in the artifact through
// link units on the pages that reference them.
func (e *Extractor) Extract(ctx context.Context, res harvest.Resource, req *harvest.Request, state *State) []harvest.ContentUnit {
	switch res.Kind {
	case harvest.KindDocument:
		return e.referenceUnit(res, harvest.UnitDocumentRef, req, state)
	case harvest.KindImage:
		return e.referenceUnit(res, harvest.UnitImageRef, req, state)
	case harvest.KindAPIEndpoint:
		e.log().Debug("skipping api endpoint", "url", res.URL)
		return nil
	}

	body, err := e.renderPage(ctx, res.URL, state)
	if err != nil {
		state.AddErrored()
		e.log().Warn("extraction failed", "url", res.URL, "error", err)
		return []harvest.ContentUnit{errorUnit(res.URL, err)}
	}

	if req.PublishedAfter != nil {
		if published, ok := hgoquery.PublishedDate(body); ok && published.Before(*req.PublishedAfter) {
			state.AddSkipped()
			e.log().Debug("skipping stale page", "url", res.URL, "published", published)
			return nil
		}
	}

	units, err := hgoquery.Extract(body, res.URL)
	if err != nil {
		state.AddErrored()
		return []harvest.ContentUnit{errorUnit(res.URL, err)}
	}

	kept := e.filter(units, req, state)
	if len(kept) > 0 {
		state.AddExtracted()
		state.AddUnits(len(kept))
	}
	return kept
}

// referenceUnit emits the single unit representing a document or image
// resource, subject to exclusion and dedup like any other unit.
func (e *Extractor) referenceUnit(res harvest.Resource, kind harvest.UnitKind, req *harvest.Request, state *State) []harvest.ContentUnit {
	if req.Exclude.Excludes(kind) {
		return nil
	}
	fp, fresh := e.Deduper.Accept(res.URL)
	if !fresh {
		state.AddDuplicates(1)
		return nil
	}
	state.AddExtracted()
	state.AddUnits(1)
	return []harvest.ContentUnit{{
		ResourceURL: res.URL,
		Kind:        kind,
		Value:       res.URL,
		Fingerprint: fp,
	}}
}

// renderPage loads the URL in a session, dismisses consent chrome and
// applies one strategy pass so below-the-fold content is present in the
// returned document. A crashed session is replaced and the navigation
// retried once.
func (e *Extractor) renderPage(ctx context.Context, url string, state *State) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		body, err := e.renderOnce(ctx, url, state)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (e *Extractor) renderOnce(ctx context.Context, url string, state *State) (string, error) {
	sess, err := e.Sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer e.Sessions.Release(sess)

	if err := sess.Navigate(ctx, url); err != nil {
		return "", err
	}
	state.AddRenders()

	if _, err := sess.ClickFirst(ctx, consentSelectors...); err != nil {
		e.log().Debug("consent dismissal failed", "url", url, "error", err)
	}
	if e.Strategies != nil {
		e.Strategies.Advance(ctx, sess)
	}

	return sess.HTML(ctx)
}

// filter applies the exclusion set and the deduplicator. Error units are
// exempt from both.
func (e *Extractor) filter(units []harvest.ContentUnit, req *harvest.Request, state *State) []harvest.ContentUnit {
	var kept []harvest.ContentUnit
	for _, unit := range units {
		if unit.Kind != harvest.UnitError {
			if req.Exclude.Excludes(unit.Kind) {
				continue
			}
			fp, fresh := e.Deduper.Accept(unit.Value)
			if !fresh {
				state.AddDuplicates(1)
				continue
			}
			unit.Fingerprint = fp
		}
		kept = append(kept, unit)
	}
	return kept
}

func (e *Extractor) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func errorUnit(url string, err error) harvest.ContentUnit {
	return harvest.ContentUnit{
		ResourceURL: url,
		Kind:        harvest.UnitError,
		Value:       harvest.ErrorMessage(err),
	}
}
