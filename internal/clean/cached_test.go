package clean

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/tweetprep/internal/cache"
)

type countingCleaner struct {
	calls int
}

func (c *countingCleaner) Clean(text string) (string, bool) {
	c.calls++
	if strings.HasPrefix(text, "http") {
		return "", false
	}
	return strings.ToLower(text), true
}

func TestCachedCleaner(t *testing.T) {
	next := &countingCleaner{}
	cc := NewCachedCleaner(next, cache.NewMemoryCache(time.Minute, time.Minute), Namespace(5, 179, true))

	for i := 0; i < 3; i++ {
		got, kept := cc.Clean("Feeling Down")
		if !kept || got != "feeling down" {
			t.Fatalf("unexpected result %q kept=%v", got, kept)
		}
	}
	if next.calls != 1 {
		t.Errorf("expected underlying cleaner called once, got %d", next.calls)
	}

	// rejection survives the round trip through the cache
	for i := 0; i < 2; i++ {
		got, kept := cc.Clean("http://x.y")
		if kept || got != "" {
			t.Errorf("expected rejected tweet, got %q kept=%v", got, kept)
		}
	}

	hits, misses := cc.Stats()
	if hits != 3 || misses != 2 {
		t.Errorf("expected 3 hits and 2 misses, got %d/%d", hits, misses)
	}
}

func TestNamespace(t *testing.T) {
	if Namespace(5, 179, true) == Namespace(5, 179, false) {
		t.Error("expected lemmatize flag to change namespace")
	}
	if Namespace(5, 179, true) == Namespace(6, 179, true) {
		t.Error("expected min length to change namespace")
	}
}
