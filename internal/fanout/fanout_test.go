package fanout_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"watchfilter/internal/fanout"
)

type depthTracker struct {
	current atomic.Int64
	peak    atomic.Int64
}

func (d *depthTracker) enter() {
	n := d.current.Add(1)
	for {
		p := d.peak.Load()
		if n <= p || d.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (d *depthTracker) leave() { d.current.Add(-1) }

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}
	results := fanout.Map(context.Background(), items, fanout.Options{Window: 3}, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, n := range items {
		if results[i].Err != nil || results[i].Value != n*10 {
			t.Fatalf("result %d = %+v, want %d", i, results[i], n*10)
		}
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	var tracker depthTracker
	var calls atomic.Int64
	items := make([]int, 12)

	fanout.Map(context.Background(), items, fanout.Options{Window: 5}, func(context.Context, int) (struct{}, error) {
		tracker.enter()
		defer tracker.leave()
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return struct{}{}, nil
	})

	if got := tracker.peak.Load(); got > 5 {
		t.Fatalf("peak concurrency %d exceeds window 5", got)
	}
	if got := calls.Load(); got != 12 {
		t.Fatalf("expected 12 calls, got %d", got)
	}
}

func TestMapWindowsSettleBeforeNextStarts(t *testing.T) {
	var mu sync.Mutex
	var finished []int
	var windows []fanout.Window

	opts := fanout.Options{
		Window: 2,
		OnWindow: func(w fanout.Window) {
			mu.Lock()
			defer mu.Unlock()
			if len(finished) != w.Start {
				t.Errorf("window %d started with %d of %d prior items settled", w.Index, len(finished), w.Start)
			}
			windows = append(windows, w)
		},
	}
	fanout.Map(context.Background(), []int{1, 2, 3, 4, 5}, opts, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(6-n) * time.Millisecond)
		mu.Lock()
		finished = append(finished, n)
		mu.Unlock()
		return n, nil
	})

	if len(windows) != 3 || windows[2].Size != 1 || windows[2].Start != 4 {
		t.Fatalf("unexpected windows %+v", windows)
	}
}

func TestMapIsolatesFailuresAndPanics(t *testing.T) {
	boom := errors.New("boom")
	results := fanout.Map(context.Background(), []int{1, 2, 3}, fanout.Options{Window: 3}, func(_ context.Context, n int) (int, error) {
		switch n {
		case 2:
			return 0, boom
		case 3:
			panic("kaboom")
		}
		return n, nil
	})

	if results[0].Err != nil || results[0].Value != 1 {
		t.Fatalf("expected first item to succeed, got %+v", results[0])
	}
	if !errors.Is(results[1].Err, boom) {
		t.Fatalf("expected boom, got %v", results[1].Err)
	}
	var pe *fanout.PanicError
	if !errors.As(results[2].Err, &pe) || pe.Value != "kaboom" {
		t.Fatalf("expected recovered panic, got %v", results[2].Err)
	}
}

func TestMapStopsLaunchingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64

	results := fanout.Map(ctx, []int{1, 2, 3, 4}, fanout.Options{Window: 2}, func(context.Context, int) (int, error) {
		calls.Add(1)
		cancel()
		return 1, nil
	})

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected only the first window to run, got %d calls", got)
	}
	for i := 0; i < 2; i++ {
		if results[i].Err != nil {
			t.Fatalf("expected in-flight window to complete, got %v", results[i].Err)
		}
	}
	for i := 2; i < 4; i++ {
		if !errors.Is(results[i].Err, context.Canceled) {
			t.Fatalf("result %d: expected context.Canceled, got %v", i, results[i].Err)
		}
	}
}

func TestMapEmptyAndDefaultWindow(t *testing.T) {
	if got := fanout.Map(context.Background(), []int(nil), fanout.Options{}, func(context.Context, int) (int, error) {
		t.Fatal("unexpected call")
		return 0, nil
	}); len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}

	var tracker depthTracker
	fanout.Map(context.Background(), make([]int, 11), fanout.Options{}, func(context.Context, int) (int, error) {
		tracker.enter()
		defer tracker.leave()
		time.Sleep(2 * time.Millisecond)
		return 0, nil
	})
	if tracker.peak.Load() > fanout.DefaultWindow {
		t.Fatalf("peak %d exceeds default window", tracker.peak.Load())
	}
}
