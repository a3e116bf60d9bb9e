// internal/flash/notice.go
//
// Transient messages that clear themselves after a fixed delay.
// Responsibilities:
//   - Show a message and schedule its removal.
//   - Replace a pending removal when a new message is shown.
//   - Cancel the pending removal on Close so no timer outlives its owner.
//   - Reopen a closed notice when its owner comes back into use.
//
// The clock is injectable so tests can fire timers without sleeping.
package flash

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Timer is a handle to a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock schedules on the runtime timer.
var RealClock Clock = realClock{}

// Notice is a single self-clearing message slot.
type Notice struct {
	mu     sync.Mutex
	ttl    time.Duration
	clock  Clock
	msg    string
	seq    uint64 // bumped on every Show so a stale timer can't clear a newer message
	timer  Timer
	closed bool
}

// New returns a notice cleared ttl after each Show.
// A nil clock uses RealClock; a non-positive ttl uses DefaultTTL.
func New(ttl time.Duration, clock Clock) *Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = RealClock
	}
	return &Notice{ttl: ttl, clock: clock}
}

// Show sets msg and schedules it to clear, cancelling any earlier schedule.
// It is a no-op after Close.
func (n *Notice) Show(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.msg = msg
	n.timer = n.clock.AfterFunc(n.ttl, func() { n.expire(seq) })
}

func (n *Notice) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq {
		return
	}
	n.msg = ""
	n.timer = nil
}

// Message returns the current text, or "" once cleared.
func (n *Notice) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}

// Pending reports whether a clear is scheduled.
func (n *Notice) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timer != nil
}

// Close cancels the pending clear and empties the notice.
func (n *Notice) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	n.msg = ""
	n.closed = true
}

// Closed reports whether Close was called and not followed by Reopen.
func (n *Notice) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// Reopen lets a closed notice show messages again.
func (n *Notice) Reopen() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = false
}
