package gridstate

import (
	"sync"
	"time"
)

// LoadingTracker merges independent in-flight reads (fixtures page, bookmark
// counts, filter facets) into one visible loading flag. The combined flag
// clears only when every read resolved AND the minimum visible duration has
// passed, so short fetches do not flicker.
type LoadingTracker struct {
	mu         sync.Mutex
	flags      map[string]struct{}
	minVisible time.Duration
	shownAt    time.Time
	visible    bool
	hideTimer  *time.Timer
	closed     bool
	onChange   func(visible bool)
}

func NewLoadingTracker(minVisible time.Duration, onChange func(bool)) *LoadingTracker {
	return &LoadingTracker{
		flags:      make(map[string]struct{}),
		minVisible: minVisible,
		onChange:   onChange,
	}
}

// Begin marks one named read as in flight.
func (t *LoadingTracker) Begin(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.flags[key] = struct{}{}
	if t.hideTimer != nil {
		t.hideTimer.Stop()
		t.hideTimer = nil
	}
	if !t.visible {
		t.visible = true
		t.shownAt = time.Now()
		t.notify(true)
	}
}

// End marks one named read as resolved. The visible flag drops immediately
// when the minimum duration already elapsed, otherwise after the remainder.
func (t *LoadingTracker) End(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.flags, key)
	if t.closed || len(t.flags) > 0 || !t.visible {
		return
	}
	remaining := t.minVisible - time.Since(t.shownAt)
	if remaining <= 0 {
		t.visible = false
		t.notify(false)
		return
	}
	t.hideTimer = time.AfterFunc(remaining, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.hideTimer = nil
		if t.closed || len(t.flags) > 0 || !t.visible {
			return
		}
		t.visible = false
		t.notify(false)
	})
}

func (t *LoadingTracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Close cancels any pending hide timer; used on session teardown.
func (t *LoadingTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.hideTimer != nil {
		t.hideTimer.Stop()
		t.hideTimer = nil
	}
	t.visible = false
}

func (t *LoadingTracker) notify(visible bool) {
	if t.onChange != nil {
		t.onChange(visible)
	}
}
