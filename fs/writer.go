// Package fs persists run artifacts to the local filesystem.
package fs

import (
	"os"
	"path/filepath"

	"github.com/scrapeworks/harvest"
	"github.com/scrapeworks/harvest/crawl"
)

// Writer writes the aggregated artifact of a run into a base directory.
// Writes are atomic: content goes to a temp file first and is renamed into
// place, so a crashed run never leaves a truncated artifact behind.
type Writer struct {
	baseDir string
}

// NewWriter creates a Writer rooted at baseDir. The directory is created
// on first write if it doesn't exist.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteArtifact formats the pages and writes them to
// <baseDir>/<host>_analysis.txt, deriving the host from seedURL.
// It returns the full path of the written file.
func (w *Writer) WriteArtifact(seedURL string, pages []harvest.PageContent) (string, error) {
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(w.baseDir, crawl.ArtifactFilename(seedURL))
	tmp := path + ".tmp"

	content := crawl.FormatArtifact(pages)
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
