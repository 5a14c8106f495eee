// Package notify is the process-wide notification channel. Producers that
// have no view of their own (the request interceptor, command handlers) show
// messages through the Bus; whichever surface is bound renders them.
package notify

import "sync"

// Severity of a notification.
type Severity int

const (
	// Info is the default severity.
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notification is one message to display.
type Notification struct {
	Message  string
	Severity Severity
}

// Handler renders notifications.
type Handler func(Notification)

// Bus holds at most one bound Handler. Show is a no-op while nothing is bound.
type Bus struct {
	mu      sync.Mutex
	handler Handler
	gen     uint64
}

// NewBus creates an unbound Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Bind makes h the active handler, replacing any previous one. The returned
// release func unbinds h only if it is still the active handler, so a stale
// surface cannot detach its replacement.
func (b *Bus) Bind(h Handler) (release func()) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.handler = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == gen {
			b.handler = nil
		}
	}
}

// Unbind detaches whatever handler is bound.
func (b *Bus) Unbind() {
	b.mu.Lock()
	b.gen++
	b.handler = nil
	b.mu.Unlock()
}

// Bound reports whether a handler is bound.
func (b *Bus) Bound() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler != nil
}

// Show delivers a notification to the bound handler, if any. The handler runs
// on the caller's goroutine, outside the bus lock.
func (b *Bus) Show(message string, severity Severity) {
	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	if h == nil {
		return
	}
	h(Notification{Message: message, Severity: severity})
}
