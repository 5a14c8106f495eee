package nav

import "sync"

type navOptions struct {
	replace bool
}

// Option configures a single navigation.
type Option func(*navOptions)

// Replace substitutes the current entry instead of pushing a new one.
func Replace() Option {
	return func(o *navOptions) { o.replace = true }
}

// History is the location stack. It is safe for concurrent use; the change
// listener runs outside the lock on the navigating goroutine.
type History struct {
	mu       sync.Mutex
	entries  []Location
	listener func(Location)
}

// NewHistory creates a History positioned at start.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

// OnChange sets the listener called after every effective location change.
// A nil listener removes it.
func (h *History) OnChange(fn func(Location)) {
	h.mu.Lock()
	h.listener = fn
	h.mu.Unlock()
}

// Current returns the active location.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Navigate moves to loc. Navigating to the current location is a no-op and
// does not notify the listener. It reports whether the location changed.
func (h *History) Navigate(loc Location, opts ...Option) bool {
	var o navOptions
	for _, opt := range opts {
		opt(&o)
	}

	h.mu.Lock()
	last := len(h.entries) - 1
	if h.entries[last] == loc {
		h.mu.Unlock()
		return false
	}
	if o.replace {
		h.entries[last] = loc
	} else {
		h.entries = append(h.entries, loc)
	}
	fn := h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
	return true
}

// Back pops the current entry. It reports false when there is nothing to
// go back to.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.entries) < 2 {
		h.mu.Unlock()
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	loc := h.entries[len(h.entries)-1]
	fn := h.listener
	h.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
	return true
}
