// Package ingest pulls every configured feed once, summarizes and scores new
// entries, and stores them.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/sportabase/internal/logger"
	"github.com/deusflow/sportabase/internal/merit"
	"github.com/deusflow/sportabase/internal/metrics"
	"github.com/deusflow/sportabase/internal/news"
	"github.com/deusflow/sportabase/internal/normalize"
	"github.com/deusflow/sportabase/internal/rss"
)

// tldrBullets is the bullet count for feed stories.
const tldrBullets = 3

// Store is the persistence the worker needs.
type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	InsertIfAbsent(ctx context.Context, st *news.Story) (bool, error)
}

type Summarizer interface {
	TLDR(ctx context.Context, title, text string, maxBullets int) []string
}

// Report counts what one run did.
type Report struct {
	Sources      int `json:"sources"`
	FetchedItems int `json:"fetched_items"`
	Inserted     int `json:"inserted"`
	Skipped      int `json:"skipped"`
}

type Worker struct {
	store       Store
	fetcher     rss.Fetcher
	summarizer  Summarizer
	loadSources func() ([]news.Source, error)
	maxEntries  int
	now         func() time.Time
}

// New creates a Worker that reads its source list from sourcesPath at the
// start of every run.
func New(store Store, fetcher rss.Fetcher, summarizer Summarizer, sourcesPath string, maxEntries int) *Worker {
	return &Worker{
		store:       store,
		fetcher:     fetcher,
		summarizer:  summarizer,
		loadSources: func() ([]news.Source, error) { return rss.LoadSources(sourcesPath) },
		maxEntries:  maxEntries,
		now:         time.Now,
	}
}

// Run performs one ingestion pass. Feeds that cannot be fetched or parsed are
// skipped; a storage failure aborts the run.
func (w *Worker) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	metrics.Global.IncrementIngestRuns()

	report, err := w.run(ctx)
	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.AddIngestCounts(report.FetchedItems, report.Inserted, report.Skipped)
	if err != nil {
		metrics.Global.SetError(err.Error())
		logger.Error("ingestion aborted", "error", err)
		return report, err
	}
	metrics.Global.SetLastRun()

	logger.Info("ingestion finished",
		"sources", report.Sources,
		"fetched", report.FetchedItems,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"duration", time.Since(start))
	return report, nil
}

func (w *Worker) run(ctx context.Context) (Report, error) {
	var report Report

	sources, err := w.loadSources()
	if err != nil {
		return report, fmt.Errorf("load sources: %w", err)
	}
	report.Sources = len(sources)

	for _, src := range sources {
		if src.URL == "" {
			logger.Debug("skipping source without url", "source", src.Name)
			continue
		}

		entries, err := w.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			metrics.Global.IncrementFailedSources()
			logger.Warn("skipping feed", "source", src.Name, "url", src.URL, "error", err)
			continue
		}
		if len(entries) > w.maxEntries {
			entries = entries[:w.maxEntries]
		}

		for _, e := range entries {
			link := strings.TrimSpace(e.Link)
			title := strings.TrimSpace(e.Title)
			if link == "" || title == "" {
				continue
			}
			report.FetchedItems++

			inserted, err := w.ingestEntry(ctx, src, e, title, link)
			if err != nil {
				return report, err
			}
			if inserted {
				report.Inserted++
			} else {
				report.Skipped++
			}
		}
	}
	return report, nil
}

// ingestEntry stores one entry unless its id is already known. The existence
// check runs first so known stories never cost a summarization call.
func (w *Worker) ingestEntry(ctx context.Context, src news.Source, e rss.Entry, title, link string) (bool, error) {
	id := news.StableID(link)

	exists, err := w.store.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	summary := normalize.Text(e.Summary)
	score := merit.Score(title, summary)

	st := &news.Story{
		ID:         id,
		Source:     src.Name,
		Sport:      src.Sport,
		Title:      title,
		Link:       link,
		Published:  e.Published,
		Summary:    summary,
		TLDR:       w.summarizer.TLDR(ctx, title, summary, tldrBullets),
		MeritScore: score.Total,
		Badge:      string(score.Badge),
		CreatedAt:  news.FormatCreatedAt(w.now()),
	}
	return w.store.InsertIfAbsent(ctx, st)
}
