package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

type upperCleaner struct {
	calls atomic.Int32
}

func (c *upperCleaner) Clean(text string) (string, bool) {
	c.calls.Add(1)
	if text == "" {
		return "", false
	}
	return strings.ToUpper(text), true
}

func TestBatchProcessor_ProcessTexts_Order(t *testing.T) {
	cleaner := &upperCleaner{}
	processor := NewBatchProcessor(cleaner, 4)

	texts := []string{"alpha", "beta", "", "gamma", "delta", "epsilon", "zeta"}
	results := processor.ProcessTexts(context.Background(), texts)

	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}

	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Error != nil {
			t.Errorf("unexpected error at %d: %v", i, r.Error)
		}
		if r.Clean != strings.ToUpper(texts[i]) {
			t.Errorf("result %d: expected %q, got %q", i, strings.ToUpper(texts[i]), r.Clean)
		}
	}

	if results[2].Kept {
		t.Error("expected empty text to be rejected")
	}
	if got := cleaner.calls.Load(); got != int32(len(texts)) {
		t.Errorf("expected %d cleaner calls, got %d", len(texts), got)
	}
}

func TestBatchProcessor_ProcessTexts_Empty(t *testing.T) {
	processor := NewBatchProcessor(&upperCleaner{}, 2)
	results := processor.ProcessTexts(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessTexts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&upperCleaner{}, 2)
	texts := []string{"a", "b", "c", "d"}
	results := processor.ProcessTexts(ctx, texts)

	if len(results) != len(texts) {
		t.Fatalf("expected a result per row, got %d", len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.Error != nil && !errors.Is(r.Error, context.Canceled) {
			t.Errorf("result %d: unexpected error %v", i, r.Error)
		}
	}
}

type cancellingCleaner struct {
	calls  atomic.Int32
	after  int32
	cancel context.CancelFunc
}

func (c *cancellingCleaner) Clean(text string) (string, bool) {
	if c.calls.Add(1) == c.after {
		c.cancel()
	}
	return text, true
}

func TestBatchProcessor_ProcessTexts_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleaner := &cancellingCleaner{after: 3, cancel: cancel}
	processor := NewBatchProcessor(cleaner, 1)

	texts := make([]string, 50)
	for i := range texts {
		texts[i] = "row"
	}
	results := processor.ProcessTexts(ctx, texts)

	if len(results) != len(texts) {
		t.Fatalf("expected a result per row, got %d", len(results))
	}
	for i := 0; i < 2; i++ {
		if results[i].Error != nil || results[i].Clean != "row" {
			t.Errorf("row %d should have finished before cancel: %+v", i, results[i])
		}
	}
	last := results[len(results)-1]
	if !errors.Is(last.Error, context.Canceled) {
		t.Errorf("expected last row to carry context.Canceled, got %v", last.Error)
	}
	if got := cleaner.calls.Load(); got != 3 {
		t.Errorf("expected cleaning to stop after 3 calls, got %d", got)
	}
}
