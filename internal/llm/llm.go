// Package llm hides the AI summarization providers behind one interface and
// owns the process-wide client handle.
package llm

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/deusflow/sportabase/internal/gemini"
	"github.com/deusflow/sportabase/internal/logger"
)

// Generator sends a prompt to a text model and returns its raw reply.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Generator for the given credential.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

// NewFactory returns the Factory for a provider name.
func NewFactory(provider, model string) (Factory, error) {
	switch provider {
	case "gemini":
		return func(ctx context.Context, key string) (Generator, error) {
			c, err := gemini.NewClient(ctx, key, model)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	case "anthropic":
		return func(_ context.Context, key string) (Generator, error) {
			return NewAnthropicClient(key, model), nil
		}, nil
	case "openai":
		return func(_ context.Context, key string) (Generator, error) {
			return NewOpenAIClient(key, model), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", provider)
	}
}

// Handle lazily builds and caches a Generator. The credential is looked up on
// every call. An empty credential means no AI is available. A changed
// credential triggers a rebuild, but no more than once per MinInterval.
type Handle struct {
	keyFunc     func() string
	factory     Factory
	minInterval time.Duration
	now         func() time.Time

	mu       sync.Mutex
	current  Generator
	key      string
	lastInit time.Time
}

func NewHandle(keyFunc func() string, factory Factory, minInterval time.Duration) *Handle {
	return &Handle{
		keyFunc:     keyFunc,
		factory:     factory,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Get returns the current Generator, or false when no credential is set or
// the client cannot be built.
func (h *Handle) Get(ctx context.Context) (Generator, bool) {
	if h == nil {
		return nil, false
	}
	key := h.keyFunc()
	if key == "" {
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil && (key == h.key || h.now().Sub(h.lastInit) < h.minInterval) {
		return h.current, true
	}

	gen, err := h.factory(ctx, key)
	if err != nil {
		logger.Warn("AI client unavailable", "error", err)
		return h.current, h.current != nil
	}

	h.closeCurrent()
	h.current = gen
	h.key = key
	h.lastInit = h.now()
	logger.Debug("AI client initialised", "provider", gen.Name())
	return h.current, true
}

// Close releases the cached client, if any.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCurrent()
}

func (h *Handle) closeCurrent() error {
	if h.current == nil {
		return nil
	}
	var err error
	if c, ok := h.current.(io.Closer); ok {
		err = c.Close()
	}
	h.current = nil
	return err
}
