package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeGen struct {
	key    string
	closed bool
}

func (f *fakeGen) Name() string { return "fake" }

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	return `{"bullets":["x"]}`, nil
}

func (f *fakeGen) Close() error {
	f.closed = true
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestHandle(key *string, builds *[]*fakeGen, c *clock) *Handle {
	factory := func(_ context.Context, k string) (Generator, error) {
		g := &fakeGen{key: k}
		*builds = append(*builds, g)
		return g, nil
	}
	h := NewHandle(func() string { return *key }, factory, time.Minute)
	h.now = c.now
	return h
}

func TestHandleNoKey(t *testing.T) {
	key := ""
	var builds []*fakeGen
	h := newTestHandle(&key, &builds, &clock{t: time.Now()})

	if g, ok := h.Get(context.Background()); ok || g != nil {
		t.Fatalf("expected no generator without a key, got %v", g)
	}
	if len(builds) != 0 {
		t.Fatalf("factory called %d times, want 0", len(builds))
	}
}

func TestHandleCachesClient(t *testing.T) {
	key := "k1"
	var builds []*fakeGen
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := newTestHandle(&key, &builds, c)

	first, ok := h.Get(context.Background())
	if !ok {
		t.Fatal("expected generator")
	}
	c.t = c.t.Add(10 * time.Minute)
	second, _ := h.Get(context.Background())

	if first != second {
		t.Error("unchanged key should reuse the cached client")
	}
	if len(builds) != 1 {
		t.Errorf("factory called %d times, want 1", len(builds))
	}
}

func TestHandleRebuildRespectsInterval(t *testing.T) {
	key := "k1"
	var builds []*fakeGen
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := newTestHandle(&key, &builds, c)

	h.Get(context.Background())

	key = "k2"
	c.t = c.t.Add(10 * time.Second)
	g, _ := h.Get(context.Background())
	if g.(*fakeGen).key != "k1" {
		t.Fatal("key change inside the interval should not rebuild")
	}

	c.t = c.t.Add(time.Minute)
	g, _ = h.Get(context.Background())
	if g.(*fakeGen).key != "k2" {
		t.Fatal("key change after the interval should rebuild")
	}
	if !builds[0].closed {
		t.Error("previous client should be closed on rebuild")
	}
}

func TestHandleFactoryError(t *testing.T) {
	h := NewHandle(func() string { return "k" }, func(context.Context, string) (Generator, error) {
		return nil, errors.New("boom")
	}, time.Minute)

	if _, ok := h.Get(context.Background()); ok {
		t.Fatal("expected no generator when the factory fails")
	}
}

func TestNewFactoryUnknownProvider(t *testing.T) {
	if _, err := NewFactory("mystery", ""); err == nil {
		t.Fatal("expected error")
	}
	for _, p := range []string{"gemini", "anthropic", "openai"} {
		if _, err := NewFactory(p, ""); err != nil {
			t.Errorf("NewFactory(%q): %v", p, err)
		}
	}
}
