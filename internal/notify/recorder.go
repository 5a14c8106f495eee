package notify

import "sync"

// Recorder is a Handler that keeps every notification it receives. It is
// safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

// Handle records n.
func (r *Recorder) Handle(n Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notes = nil
	r.mu.Unlock()
}
