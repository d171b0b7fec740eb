package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type deleterStub struct {
	pending int
	calls   int
	cutoffs []time.Time
	err     error
}

func (s *deleterStub) DeleteDue(_ context.Context, cutoff time.Time, limit int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.calls++
	s.cutoffs = append(s.cutoffs, cutoff)
	deleted := s.pending
	if deleted > limit {
		deleted = limit
	}
	s.pending -= deleted
	return deleted, nil
}

func TestRunSweepsBacklogInBatches(t *testing.T) {
	deleter := &deleterStub{pending: 450}
	job := New(deleter, nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if deleter.pending != 0 {
		t.Fatalf("pending = %d, want 0", deleter.pending)
	}
	// 200 + 200 + 50: the short batch terminates the pass.
	if deleter.calls != 3 {
		t.Fatalf("batches = %d, want 3", deleter.calls)
	}
}

func TestRunUsesOneCutoffForTheWholePass(t *testing.T) {
	deleter := &deleterStub{pending: 400}
	job := New(deleter, nil)
	fixed := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, cutoff := range deleter.cutoffs {
		if !cutoff.Equal(fixed) {
			t.Fatalf("batch %d cutoff = %v, want %v", i, cutoff, fixed)
		}
	}
}

func TestRunStopsOnError(t *testing.T) {
	deleter := &deleterStub{err: errors.New("db down")}
	job := New(deleter, nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected delete failure to surface")
	}
}

func TestRunWithoutDeleterIsNoop(t *testing.T) {
	job := New(nil, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}
