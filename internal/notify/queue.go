// Package notify holds the process-wide queue of transient user-facing
// messages. Each notification expires on its own timer; dismissal
// cancels the pending timer so expiry and dismissal never race into a
// double removal.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification for display.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
	Warning Severity = "warning"
)

// Notification is a single transient message.
type Notification struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// Queue is an ordered set of live notifications. Timer callbacks fire
// on their own goroutines, so all state is mutex-guarded.
type Queue struct {
	mu       sync.Mutex
	items    []Notification
	timers   map[string]*time.Timer
	ttl      time.Duration
	onExpire func(id string)
}

// Option configures a Queue.
type Option func(*Queue)

// WithTTL overrides the auto-dismiss duration.
func WithTTL(d time.Duration) Option {
	return func(q *Queue) { q.ttl = d }
}

// New creates an empty queue with the default 3 s TTL.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers: make(map[string]*time.Timer),
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetOnExpire registers fn to be called (off the caller's goroutine)
// whenever a notification times out. The TUI uses this to push a
// redraw message into the running program.
func (q *Queue) SetOnExpire(fn func(id string)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onExpire = fn
}

// Push appends a notification and schedules its removal after the TTL.
// It returns the new notification's id immediately.
func (q *Queue) Push(message string, sev Severity) string {
	id := uuid.NewString()

	q.mu.Lock()
	q.items = append(q.items, Notification{
		ID:        id,
		Message:   message,
		Severity:  sev,
		CreatedAt: time.Now(),
	})
	q.timers[id] = time.AfterFunc(q.ttl, func() { q.expire(id) })
	q.mu.Unlock()

	return id
}

// Dismiss removes the notification with the given id and cancels its
// timer. Dismissing an unknown or already-removed id is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
	}
	q.remove(id)
}

// List returns the live notifications, oldest first.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of live notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) expire(id string) {
	q.mu.Lock()
	q.remove(id)
	fn := q.onExpire
	q.mu.Unlock()

	if fn != nil {
		fn(id)
	}
}

// remove drops id from items and timers. Callers hold q.mu.
func (q *Queue) remove(id string) {
	delete(q.timers, id)
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
