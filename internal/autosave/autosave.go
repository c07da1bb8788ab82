// Package autosave tracks unsaved-changes state and debounces a
// background save. The tracker is a constructed service with an explicit
// lifecycle, injected where it is needed; there is no package-level state.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the debounce delay between a mutation and the
// background save it schedules.
const DefaultInterval = 30 * time.Minute

// SaveFunc persists the current state. The tracker shares this routine
// with explicit user-triggered saves; the caller is responsible for
// making it safe to invoke from the timer goroutine.
type SaveFunc func(ctx context.Context) error

// Status is the observable dirty/last-save state.
type Status struct {
	HasUnsavedChanges bool
	LastSaveTime      time.Time // zero until the first successful save
}

// Listener receives every status transition.
type Listener func(Status)

// Option configures a Tracker.
type Option func(*Tracker)

// WithInterval overrides the debounce interval.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// WithLogger sets the logger used for autosave failures.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker is the dirty-state machine: Clean -> (mutation) -> Dirty ->
// (timer fires or explicit save succeeds) -> Clean.
type Tracker struct {
	save     SaveFunc
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	dirty     bool
	lastSave  time.Time
	timer     *time.Timer
	listeners map[int]Listener
	nextID    int
	closed    bool
}

// New builds a tracker around the given save routine.
func New(save SaveFunc, opts ...Option) *Tracker {
	t := &Tracker{
		save:      save,
		interval:  DefaultInterval,
		log:       zerolog.Nop(),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MarkDirty records an unsaved mutation and (re)arms the debounce timer.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.dirty = true
	t.armLocked()
	status, listeners := t.statusLocked()
	t.mu.Unlock()

	notify(listeners, status)
}

// MarkClean records a completed save and stamps the save time.
func (t *Tracker) MarkClean() {
	t.mu.Lock()
	t.dirty = false
	t.lastSave = t.now()
	status, listeners := t.statusLocked()
	t.mu.Unlock()

	notify(listeners, status)
}

// Status returns the current dirty/last-save state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{HasUnsavedChanges: t.dirty, LastSaveTime: t.lastSave}
}

// Subscribe registers a listener for status transitions and returns its
// unsubscribe function.
func (t *Tracker) Subscribe(l Listener) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = l
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// Flush saves immediately when dirty. Used for explicit saves that want
// the tracker's bookkeeping.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	dirty := t.dirty
	t.mu.Unlock()
	if !dirty {
		return nil
	}
	if err := t.save(ctx); err != nil {
		return err
	}
	t.MarkClean()
	return nil
}

// Close stops the timer and, when dirty, attempts one synchronous
// best-effort save. The environment may still terminate before the write
// completes; this is not a durability guarantee.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	dirty := t.dirty
	t.mu.Unlock()

	if !dirty {
		return nil
	}
	if err := t.save(ctx); err != nil {
		t.log.Warn().Err(err).Msg("final save on shutdown failed")
		return err
	}
	t.MarkClean()
	return nil
}

// armLocked resets the debounce timer. Caller holds t.mu.
func (t *Tracker) armLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.interval, t.timerFired)
}

func (t *Tracker) timerFired() {
	t.mu.Lock()
	if t.closed || !t.dirty {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if err := t.save(context.Background()); err != nil {
		// Stay dirty; the next mutation or timer cycle retries.
		t.log.Warn().Err(err).Msg("auto-save failed")
		t.mu.Lock()
		if !t.closed {
			t.armLocked()
		}
		t.mu.Unlock()
		return
	}
	t.MarkClean()
}

func (t *Tracker) statusLocked() (Status, []Listener) {
	status := Status{HasUnsavedChanges: t.dirty, LastSaveTime: t.lastSave}
	listeners := make([]Listener, 0, len(t.listeners))
	for _, l := range t.listeners {
		listeners = append(listeners, l)
	}
	return status, listeners
}

// notify runs outside the tracker lock so listeners may call back in.
func notify(listeners []Listener, status Status) {
	for _, l := range listeners {
		l(status)
	}
}
