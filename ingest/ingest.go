// Package ingest provides feed ingestion orchestration. It coordinates
// feed fetching, text extraction, and document storage, and runs the
// queue-polling worker loop.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/bloom"
	"golang.org/x/sync/errgroup"
)

// Ingester orchestrates pulling a source's feed into documents.
type Ingester struct {
	Sources     evidmap.SourceService
	Documents   evidmap.DocumentService
	Feeds       evidmap.FeedService
	Extractor   evidmap.TextExtractor
	RateLimiter *DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of ingesting one source.
type Result struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

// ProgressEvent reports progress during an ingestion run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	EntryID   string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting ingestion progress.
type ProgressFunc func(event ProgressEvent)

// entryResult holds the processed form of a single feed entry.
type entryResult struct {
	position int
	entry    evidmap.FeedEntry
	text     string
	err      error
}

// IngestSource fetches a source's feed and upserts its entries as
// documents. The progress callback, if provided, receives events as the
// run proceeds.
func (in *Ingester) IngestSource(ctx context.Context, sourceID string, progress ProgressFunc) (*Result, error) {
	source, err := in.Sources.FindSourceByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source.URL == "" {
		return nil, evidmap.Errorf(evidmap.EINVALID, "source %q has no feed URL", source.Name)
	}

	if in.RateLimiter != nil {
		if err := in.RateLimiter.Wait(ctx, domainOf(source.URL)); err != nil {
			return nil, err
		}
	}

	delays := in.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	entries, err := FetchEntriesWithRetryDelays(ctx, source.URL, in.Feeds.FetchEntries, nil, delays)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", source.URL, err)
	}

	// Feeds occasionally repeat an entry; process each ID once per run.
	seen := bloom.NewFilter(uint(max(len(entries), 64)), 0.001)
	var unique []evidmap.FeedEntry
	dropped := 0
	for _, entry := range entries {
		if entry.ID == "" || seen.Test(entry.ID) {
			dropped++
			continue
		}
		seen.Add(entry.ID)
		unique = append(unique, entry)
	}

	total := len(unique)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := in.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	resultCh := make(chan entryResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, entry := range unique {
			g.Go(func() error {
				resultCh <- in.processEntry(gctx, i, entry)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]entryResult, total)
	result := &Result{Skipped: dropped}
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		if progress != nil {
			event := ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				EntryID:   r.entry.ID,
			}
			if r.err != nil {
				event.Type = ProgressFailed
				event.Error = r.err
			}
			progress(event)
		}
	}

	// Upserts run serially; SQLite allows one writer anyway and ordered
	// writes keep the run deterministic.
	for _, r := range results {
		if r.err != nil {
			result.Failed++
			continue
		}

		doc := evidmap.Document{
			SourceID:    sourceID,
			ExternalID:  r.entry.ID,
			OriginalURL: r.entry.Link,
			Title:       r.entry.Title,
			Author:      r.entry.Author,
			PublishedAt: r.entry.PublishedAt,
			ContentHTML: r.entry.ContentHTML,
			ContentText: r.text,
		}

		created, err := in.Documents.UpsertDocument(ctx, &doc)
		switch {
		case err != nil:
			result.Failed++
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	if err := in.Sources.MarkSourcePolled(ctx, sourceID, time.Now().UTC()); err != nil {
		return result, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, nil
}

// processEntry derives the plain text of one entry's content.
func (in *Ingester) processEntry(ctx context.Context, position int, entry evidmap.FeedEntry) entryResult {
	r := entryResult{position: position, entry: entry}

	if err := ctx.Err(); err != nil {
		r.err = err
		return r
	}

	if in.Extractor != nil {
		text, err := in.Extractor.ExtractText(entry.ContentHTML)
		if err != nil {
			r.err = fmt.Errorf("extracting text for entry %s: %w", entry.ID, err)
			return r
		}
		r.text = strings.TrimSpace(text)
	} else {
		r.text = strings.TrimSpace(evidmap.StripTags(entry.ContentHTML))
	}

	return r
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
