package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	IngestRuns          int64
	ItemsFetched        int64
	StoriesInserted     int64
	DuplicatesSkipped   int64
	FailedSources       int64
	AISummaries         int64
	FallbackSummaries   int64
	AnalyzeRequests     int64
	StoriesListRequests int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementIngestRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IngestRuns++
}

// AddIngestCounts folds the totals of one ingestion run into the counters.
func (m *Metrics) AddIngestCounts(fetched, inserted, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFetched += int64(fetched)
	m.StoriesInserted += int64(inserted)
	m.DuplicatesSkipped += int64(skipped)
}

func (m *Metrics) IncrementFailedSources() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedSources++
}

func (m *Metrics) IncrementAISummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AISummaries++
}

func (m *Metrics) IncrementFallbackSummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackSummaries++
}

func (m *Metrics) IncrementAnalyzeRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalyzeRequests++
}

func (m *Metrics) IncrementStoriesListRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesListRequests++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"ingest_runs":                m.IngestRuns,
		"items_fetched":              m.ItemsFetched,
		"stories_inserted":           m.StoriesInserted,
		"duplicates_skipped":         m.DuplicatesSkipped,
		"failed_sources":             m.FailedSources,
		"ai_summaries":               m.AISummaries,
		"fallback_summaries":         m.FallbackSummaries,
		"analyze_requests":           m.AnalyzeRequests,
		"stories_list_requests":      m.StoriesListRequests,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              formatTime(m.LastRunTime),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
