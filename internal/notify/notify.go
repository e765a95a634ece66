// Package notify provides transient user-facing notifications (toasts) for
// API outcomes. Severity maps to a display style; toasts auto-dismiss after
// a fixed duration and carry no retry affordance.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karstlab/cavemap/internal/api"
)

// Severity categorizes a toast for display styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 5 * time.Second

// Toast is a single transient notification.
type Toast struct {
	ID        string
	Severity  Severity
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Listener receives toasts as they are published.
type Listener func(Toast)

// Notifier fans toasts out to registered listeners and keeps the
// not-yet-expired ones for pull-based consumers like the TUI status bar.
type Notifier struct {
	mu        sync.Mutex
	listeners []Listener
	active    []Toast
	duration  time.Duration
}

// NewNotifier creates a notifier with the default toast duration.
func NewNotifier() *Notifier {
	return &Notifier{duration: DefaultDuration}
}

// Subscribe registers a listener for future toasts.
func (n *Notifier) Subscribe(listener Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, listener)
}

// Push publishes a toast with the given severity and message.
func (n *Notifier) Push(severity Severity, message string) Toast {
	now := time.Now()
	toast := Toast{
		ID:        uuid.New().String(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.duration),
	}

	n.mu.Lock()
	n.active = append(n.active, toast)
	listeners := make([]Listener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, listener := range listeners {
		listener(toast)
	}
	return toast
}

// PushError maps an error to the toast taxonomy: a server rejection shows
// the server-provided message, a transport failure shows a generic one.
func (n *Notifier) PushError(err error) Toast {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		severity := SeverityError
		if apiErr.Status < 500 {
			severity = SeverityWarning
		}
		return n.Push(severity, apiErr.Message)
	}
	return n.Push(SeverityError, "request failed, check your connection")
}

// Active returns the toasts that have not yet expired, pruning the rest.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := time.Now()
	kept := n.active[:0]
	for _, toast := range n.active {
		if toast.ExpiresAt.After(now) {
			kept = append(kept, toast)
		}
	}
	n.active = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}
