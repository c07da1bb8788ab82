package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMarkDirtyThenClean(t *testing.T) {
	tr := New(func(ctx context.Context) error { return nil })
	defer tr.Close(context.Background())

	if tr.Status().HasUnsavedChanges {
		t.Fatal("new tracker should be clean")
	}

	tr.MarkDirty()
	if !tr.Status().HasUnsavedChanges {
		t.Error("expected dirty after MarkDirty")
	}

	before := time.Now()
	tr.MarkClean()
	status := tr.Status()
	if status.HasUnsavedChanges {
		t.Error("expected clean after MarkClean")
	}
	if status.LastSaveTime.Before(before) {
		t.Errorf("LastSaveTime = %v, want at or after %v", status.LastSaveTime, before)
	}
}

func TestListenersReceiveEveryTransition(t *testing.T) {
	tr := New(func(ctx context.Context) error { return nil })
	defer tr.Close(context.Background())

	var mu sync.Mutex
	var seen []bool
	unsubscribe := tr.Subscribe(func(s Status) {
		mu.Lock()
		seen = append(seen, s.HasUnsavedChanges)
		mu.Unlock()
	})

	tr.MarkDirty()
	tr.MarkDirty()
	tr.MarkClean()
	unsubscribe()
	tr.MarkDirty() // not observed

	mu.Lock()
	defer mu.Unlock()
	want := []bool{true, true, false}
	if len(seen) != len(want) {
		t.Fatalf("saw %d transitions %v, want %d", len(seen), seen, len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestTimerFiresSaveWhenDirty(t *testing.T) {
	saved := make(chan struct{}, 1)
	tr := New(func(ctx context.Context) error {
		saved <- struct{}{}
		return nil
	}, WithInterval(10*time.Millisecond))
	defer tr.Close(context.Background())

	tr.MarkDirty()

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not trigger a save")
	}

	// The tracker transitions to Clean after the timer-driven save.
	deadline := time.Now().Add(time.Second)
	for tr.Status().HasUnsavedChanges {
		if time.Now().After(deadline) {
			t.Fatal("tracker still dirty after successful auto-save")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTimerFailureStaysDirty(t *testing.T) {
	var calls atomic.Int32
	tr := New(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("backend down")
	}, WithInterval(10*time.Millisecond))
	defer tr.Close(context.Background())

	tr.MarkDirty()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("save attempted %d times, want a retry on the next cycle", calls.Load())
		}
		time.Sleep(time.Millisecond)
	}
	if !tr.Status().HasUnsavedChanges {
		t.Error("tracker went clean despite save failures")
	}
}

func TestFlushNoOpWhenClean(t *testing.T) {
	var calls atomic.Int32
	tr := New(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	defer tr.Close(context.Background())

	if err := tr.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("save called %d times for a clean flush, want 0", calls.Load())
	}

	tr.MarkDirty()
	if err := tr.Flush(context.Background()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("save called %d times, want 1", calls.Load())
	}
}

func TestCloseSavesWhenDirty(t *testing.T) {
	var calls atomic.Int32
	tr := New(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	tr.MarkDirty()
	if err := tr.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("save called %d times on close, want 1", calls.Load())
	}

	// Closed tracker ignores further mutations.
	tr.MarkDirty()
	if tr.Status().HasUnsavedChanges {
		t.Error("closed tracker went dirty")
	}
}
