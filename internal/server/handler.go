package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/deusflow/sportabase/internal/ingest"
	"github.com/deusflow/sportabase/internal/logger"
	"github.com/deusflow/sportabase/internal/merit"
	"github.com/deusflow/sportabase/internal/metrics"
	"github.com/deusflow/sportabase/internal/news"
	"github.com/gin-gonic/gin"
)

type StoryStore interface {
	List(ctx context.Context, f news.Filter) ([]news.Story, error)
	Count(ctx context.Context) (int, error)
}

type Ingestor interface {
	Run(ctx context.Context) (ingest.Report, error)
}

type Summarizer interface {
	TLDR(ctx context.Context, title, text string, maxBullets int) []string
}

type Handler struct {
	stories    StoryStore
	ingestor   Ingestor
	summarizer Summarizer
	budget     func() map[string]interface{}
}

// NewHandler wires the HTTP handlers. budget may be nil.
func NewHandler(stories StoryStore, ingestor Ingestor, summarizer Summarizer, budget func() map[string]interface{}) *Handler {
	return &Handler{
		stories:    stories,
		ingestor:   ingestor,
		summarizer: summarizer,
		budget:     budget,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// PostIngest runs one ingestion pass. The run is detached from the request
// so a client hanging up does not abort it halfway.
func (h *Handler) PostIngest(c *gin.Context) {
	report, err := h.ingestor.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetStories(c *gin.Context) {
	limit := news.DefaultLimit
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > news.MaxLimit {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be an integer between 1 and 200"})
			return
		}
		limit = n
	}
	metrics.Global.IncrementStoriesListRequests()

	stories, err := h.stories.List(c.Request.Context(), news.Filter{
		Sport:  c.Query("sport"),
		Source: c.Query("source"),
		Limit:  limit,
	})
	if err != nil {
		logger.Error("error listing stories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, stories)
}

// PostAnalyze summarizes and scores text sent by the browser extension.
func (h *Handler) PostAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	metrics.Global.IncrementAnalyzeRequests()

	score := merit.Score(req.Title, req.Text)
	c.JSON(http.StatusOK, AnalyzeResponse{
		URL:        req.URL,
		Title:      req.Title,
		TLDR:       h.summarizer.TLDR(c.Request.Context(), req.Title, req.Text, req.bullets()),
		MeritScore: score.Total,
		Badge:      string(score.Badge),
		Reasons:    score.Reasons,
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	stats := metrics.Global.GetStats()

	total, err := h.stories.Count(c.Request.Context())
	if err != nil {
		logger.Warn("error counting stories", "error", err)
	} else {
		stats["stories_total"] = total
	}
	if h.budget != nil {
		stats["ai_budget"] = h.budget()
	}
	c.JSON(http.StatusOK, stats)
}
