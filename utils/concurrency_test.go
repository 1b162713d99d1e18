package utils

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := NewKeySet()

	if !s.Add("QUEENS") {
		t.Error("first Add should return true")
	}
	if s.Add("QUEENS") {
		t.Error("second Add of same key should return false")
	}
	if !s.Contains("QUEENS") {
		t.Error("Contains should report an added key")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestKeySetConcurrency(t *testing.T) {
	s := NewKeySet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		pool.Submit(func() error {
			if s.Add("BROOKLYN") {
				atomic.AddInt64(&added, 1)
			}
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolInterval(t *testing.T) {
	intervalMs := 50
	pool := NewWorkerPool(1, intervalMs)

	var mu sync.Mutex
	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		pool.Submit(func() error {
			mu.Lock()
			timestamps = append(timestamps, time.Now())
			mu.Unlock()
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	min := time.Duration(intervalMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		if gap := timestamps[i].Sub(timestamps[i-1]); gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	pool := NewWorkerPool(2, 0)
	pool.Submit(func() error { return errA })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return errB })

	err := pool.Wait()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() = %v; want both job errors", err)
	}
}

func TestCounterSnapshotIsCopy(t *testing.T) {
	c := NewCounter()
	c.Set("host", 3)

	snap := c.Snapshot()
	snap["host"] = 99

	if got := c.Snapshot()["host"]; got != 3 {
		t.Errorf("host: got %d, want 3", got)
	}
}
