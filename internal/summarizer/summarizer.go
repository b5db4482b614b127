// Package summarizer turns story text into a short list of factual bullets.
//
// An AI model is used when one is available. Any failure on that path
// (no credential, exhausted budget, network error, unparseable or empty reply)
// falls back to a deterministic extractive summary, so callers always get the
// same shape of result and never see an error.
package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/sportabase/internal/llm"
	"github.com/deusflow/sportabase/internal/logger"
	"github.com/deusflow/sportabase/internal/metrics"
	"github.com/deusflow/sportabase/internal/ratelimit"
)

// maxPromptChars bounds how much source text is sent to the model.
const maxPromptChars = 6000

var errNoBullets = errors.New("no usable bullets in response")

// GeneratorSource yields the AI client to use for a call, if any.
type GeneratorSource interface {
	Get(ctx context.Context) (llm.Generator, bool)
}

type Summarizer struct {
	source  GeneratorSource
	budget  *ratelimit.AIBudget
	timeout time.Duration
}

// New creates a Summarizer. source and budget may be nil; a nil source means
// only the extractive path is used.
func New(source GeneratorSource, budget *ratelimit.AIBudget, timeout time.Duration) *Summarizer {
	return &Summarizer{source: source, budget: budget, timeout: timeout}
}

// TLDR returns at most maxBullets short statements about the text.
func (s *Summarizer) TLDR(ctx context.Context, title, text string, maxBullets int) []string {
	if maxBullets <= 0 {
		return []string{}
	}

	bullets, err := s.aiBullets(ctx, title, text, maxBullets)
	if err != nil {
		logger.Debug("using extractive summary", "title", title, "reason", err)
		metrics.Global.IncrementFallbackSummaries()
		return Extractive(text, maxBullets)
	}
	metrics.Global.IncrementAISummaries()
	return bullets
}

func (s *Summarizer) aiBullets(ctx context.Context, title, text string, maxBullets int) ([]string, error) {
	if s == nil || s.source == nil {
		return nil, errors.New("AI not configured")
	}
	gen, ok := s.source.Get(ctx)
	if !ok {
		return nil, errors.New("AI not available")
	}
	if err := s.budget.Use(gen.Name()); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := gen.Generate(ctx, buildPrompt(title, text, maxBullets))
	if err != nil {
		logger.Warn("AI summarization failed", "provider", gen.Name(), "error", err)
		return nil, err
	}
	return parseBullets(raw, maxBullets)
}

func buildPrompt(title, text string, maxBullets int) string {
	return fmt.Sprintf(`return ONLY valid json. no markdown.
task: write a %d-bullet tldr.
rules:
- bullets must be short, factual, and not repetitive
- do not invent facts
output format: {"bullets": ["...","...","..."]}

title: %s
text: %s
`, maxBullets, title, clip(text, maxPromptChars))
}

// clip returns at most n runes of s.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// parseBullets extracts the bullets array from a model reply. The reply is
// narrowed to the span between the first '{' and the last '}' before strict
// JSON decoding, since models sometimes wrap the object in prose or fences.
func parseBullets(raw string, maxBullets int) ([]string, error) {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}

	var payload struct {
		Bullets []any `json:"bullets"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode bullets: %w", err)
	}

	bullets := make([]string, 0, len(payload.Bullets))
	for _, b := range payload.Bullets {
		str, ok := b.(string)
		if !ok {
			continue
		}
		if str = strings.TrimSpace(str); str != "" {
			bullets = append(bullets, str)
		}
	}
	if len(bullets) == 0 {
		return nil, errNoBullets
	}
	if len(bullets) > maxBullets {
		bullets = bullets[:maxBullets]
	}
	return bullets, nil
}
