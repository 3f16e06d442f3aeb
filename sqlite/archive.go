package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/scrapeworks/harvest"
)

// Ensure service implements interface.
var _ harvest.RunArchive = (*RunArchive)(nil)

// RunArchive persists completed runs and their aggregated content.
type RunArchive struct {
	db *DB
}

// NewRunArchive creates a new RunArchive backed by db.
func NewRunArchive(db *DB) *RunArchive {
	return &RunArchive{db: db}
}

// SaveRun stores a run together with its aggregated content. The whole
// run is written in one transaction so a partial run never appears in
// the archive.
func (a *RunArchive) SaveRun(ctx context.Context, run *harvest.Run, pages []harvest.PageContent) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := a.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, started_at, finished_at,
			discovered, visited, extracted, units, duplicates, skipped, errored, renders)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Stats.Discovered, run.Stats.Visited, run.Stats.Extracted,
		run.Stats.Units, run.Stats.Duplicates, run.Stats.Skipped,
		run.Stats.Errored, run.Stats.Renders)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for pos, page := range pages {
		resourceID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO resources (id, run_id, url, kind, discovered_at, source, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, resourceID, run.ID, page.Resource.URL, string(page.Resource.Kind),
			page.Resource.DiscoveredAt.UTC().Format(time.RFC3339),
			page.Resource.Source, pos)
		if err != nil {
			return fmt.Errorf("failed to insert resource: %w", err)
		}

		for upos, unit := range page.Units {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO content_units (id, resource_id, kind, value, fingerprint, position)
				VALUES (?, ?, ?, ?, ?, ?)
			`, uuid.New().String(), resourceID, string(unit.Kind), unit.Value,
				strconv.FormatUint(unit.Fingerprint, 16), upos)
			if err != nil {
				return fmt.Errorf("failed to insert content unit: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindRunByID retrieves an archived run. Returns ENOTFOUND if the run
// does not exist.
func (a *RunArchive) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	var run harvest.Run
	var startedAt, finishedAt string

	err := a.db.QueryRowContext(ctx, `
		SELECT id, seed_url, started_at, finished_at,
			discovered, visited, extracted, units, duplicates, skipped, errored, renders
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.SeedURL, &startedAt, &finishedAt,
		&run.Stats.Discovered, &run.Stats.Visited, &run.Stats.Extracted,
		&run.Stats.Units, &run.Stats.Duplicates, &run.Stats.Skipped,
		&run.Stats.Errored, &run.Stats.Renders)
	if err == sql.ErrNoRows {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	if run.StartedAt, err = parseRFC3339(startedAt); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindContent retrieves the archived content for a run in stored order.
// Units for a resource stay contiguous.
func (a *RunArchive) FindContent(ctx context.Context, runID string) ([]harvest.PageContent, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT r.id, r.url, r.kind, r.discovered_at, r.source,
			u.kind, u.value, u.fingerprint
		FROM resources r
		JOIN content_units u ON u.resource_id = r.id
		WHERE r.run_id = ?
		ORDER BY r.position, u.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var pages []harvest.PageContent
	var lastResourceID string

	for rows.Next() {
		var resourceID, discoveredAt, fingerprint string
		var res harvest.Resource
		var unit harvest.ContentUnit

		if err := rows.Scan(&resourceID, &res.URL, &res.Kind, &discoveredAt, &res.Source,
			&unit.Kind, &unit.Value, &fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}

		if resourceID != lastResourceID {
			if res.DiscoveredAt, err = parseRFC3339(discoveredAt); err != nil {
				return nil, err
			}
			pages = append(pages, harvest.PageContent{Resource: res})
			lastResourceID = resourceID
		}

		if fingerprint != "" {
			fp, err := strconv.ParseUint(fingerprint, 16, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse fingerprint: %w", err)
			}
			unit.Fingerprint = fp
		}
		unit.ResourceURL = pages[len(pages)-1].Resource.URL

		page := &pages[len(pages)-1]
		page.Units = append(page.Units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}
	return pages, nil
}

// parseRFC3339 parses a stored timestamp, tolerating an empty value.
func parseRFC3339(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
