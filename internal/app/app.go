// Package app wires configuration, storage, summarization and transport into
// the commands the binary exposes.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/deusflow/sportabase/internal/config"
	"github.com/deusflow/sportabase/internal/ingest"
	"github.com/deusflow/sportabase/internal/llm"
	"github.com/deusflow/sportabase/internal/logger"
	"github.com/deusflow/sportabase/internal/merit"
	"github.com/deusflow/sportabase/internal/metrics"
	"github.com/deusflow/sportabase/internal/news"
	"github.com/deusflow/sportabase/internal/ratelimit"
	"github.com/deusflow/sportabase/internal/rss"
	"github.com/deusflow/sportabase/internal/scheduler"
	"github.com/deusflow/sportabase/internal/scraper"
	"github.com/deusflow/sportabase/internal/server"
	"github.com/deusflow/sportabase/internal/storage"
	"github.com/deusflow/sportabase/internal/summarizer"
	"github.com/gin-gonic/gin"
)

type App struct {
	cfg        *config.Config
	store      *storage.Store
	ai         *llm.Handle
	budget     *ratelimit.AIBudget
	summarizer *summarizer.Summarizer
	ingestor   *ingest.Worker
	scraper    *scraper.Scraper
}

// New opens the story store and builds every service from cfg. The AI client
// itself is created lazily on first use.
func New(cfg *config.Config) (*App, error) {
	factory, err := llm.NewFactory(cfg.AIProvider, cfg.AIModel)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath, cfg.DBBusyTimeout)
	if err != nil {
		return nil, err
	}

	ai := llm.NewHandle(cfg.AIKey, factory, cfg.AIReinitInterval)
	budget := ratelimit.NewAIBudget(cfg.MaxAIRequests)
	summ := summarizer.New(ai, budget, cfg.AITimeout)
	fetcher := rss.NewFeedFetcher(cfg.FeedTimeout, cfg.FeedUserAgent)

	a := &App{
		cfg:        cfg,
		store:      store,
		ai:         ai,
		budget:     budget,
		summarizer: summ,
		ingestor:   ingest.New(store, fetcher, summ, cfg.SourcesPath, cfg.MaxEntriesPerSource),
		scraper:    scraper.New(cfg.FeedTimeout, cfg.FeedUserAgent),
	}

	logger.Info("sportabase initialised",
		"db", cfg.DBPath,
		"sources", cfg.SourcesPath,
		"ai_provider", cfg.AIProvider,
		"ai_key_set", cfg.AIKey() != "")
	return a, nil
}

// Router returns the HTTP handler for the API.
func (a *App) Router() *gin.Engine {
	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := server.NewHandler(a.store, a.ingestor, a.summarizer, a.budget.GetStats)
	return server.NewRouter(h, a.cfg.CORSOrigins)
}

// Serve runs the API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	return server.Run(ctx, a.cfg.HTTPAddr, a.Router())
}

// Ingest runs one ingestion pass.
func (a *App) Ingest(ctx context.Context) (ingest.Report, error) {
	return a.ingestor.Run(ctx)
}

// IngestOnSchedule triggers ingestion on the given cron spec until ctx is
// cancelled. Failed runs are logged and retried on the next tick.
func (a *App) IngestOnSchedule(ctx context.Context, spec string) error {
	s, err := scheduler.New(spec, func(ctx context.Context) {
		if _, err := a.ingestor.Run(ctx); err != nil {
			logger.Error("scheduled ingestion failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.Run(ctx)
	return nil
}

// Analyze fetches a page and returns its summary and merit score. Nothing is
// stored.
func (a *App) Analyze(ctx context.Context, url string, maxBullets int) (*server.AnalyzeResponse, error) {
	if maxBullets < 1 || maxBullets > 6 {
		return nil, fmt.Errorf("max bullets must be between 1 and 6, got %d", maxBullets)
	}
	article, err := a.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	metrics.Global.IncrementAnalyzeRequests()

	title := article.Title
	if title == "" {
		title = url
	}
	score := merit.Score(title, article.Text)
	return &server.AnalyzeResponse{
		URL:        url,
		Title:      title,
		TLDR:       a.summarizer.TLDR(ctx, title, article.Text, maxBullets),
		MeritScore: score.Total,
		Badge:      string(score.Badge),
		Reasons:    score.Reasons,
	}, nil
}

// Sources returns the configured feeds, creating an empty sources file if
// none exists.
func (a *App) Sources() ([]news.Source, error) {
	return rss.LoadSources(a.cfg.SourcesPath)
}

func (a *App) Close() error {
	return errors.Join(a.ai.Close(), a.store.Close())
}
