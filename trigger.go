package reactor

import (
	"fmt"
	"runtime"
	"time"
)

// TriggerKind identifies the event-source variant of a Trigger. The set is
// closed: every kind is handled exhaustively by the reactor.
type TriggerKind uint8

const (
	// KindExternal wraps a caller-owned descriptor, which is never closed by
	// the trigger or the reactor.
	KindExternal TriggerKind = iota + 1
	// KindTimer owns a periodic timer descriptor, closed when the trigger is
	// unregistered, the reactor is closed, or Trigger.Close is called.
	KindTimer
)

func (k TriggerKind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindTimer:
		return "timer"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Trigger is an event source (descriptor plus interest mask) and the callback
// to run when it becomes ready.
//
// Triggers must not be copied. Registering a trigger moves it: the reactor
// takes ownership of the descriptor, and the caller's value is invalidated
// (Descriptor returns -1 and Callback returns nil).
//
// An owned descriptor is also released if its trigger becomes unreachable
// without being closed, like an *os.File.
type Trigger struct {
	// Prevent copying
	_ [0]func()

	// closes an owned descriptor once the trigger is unreachable, follows
	// the descriptor across moves
	cleanup runtime.Cleanup

	callback func()
	period   time.Duration
	fd       int
	events   IOEvents
	kind     TriggerKind
}

// NewExternalTrigger wraps a descriptor owned elsewhere. The descriptor should
// be non-blocking: after each callback the reactor performs one 8-byte
// acknowledgment read on it, and discards the result.
func NewExternalTrigger(fd int, events IOEvents, callback func()) *Trigger {
	return &Trigger{
		kind:     KindExternal,
		fd:       fd,
		events:   events,
		callback: callback,
	}
}

// Kind returns the variant of the trigger.
func (t *Trigger) Kind() TriggerKind { return t.kind }

// Descriptor returns the event source descriptor, or -1 once the trigger has
// been moved or closed.
func (t *Trigger) Descriptor() int { return t.fd }

// Events returns the interest mask.
func (t *Trigger) Events() IOEvents { return t.events }

// Callback returns the reaction callback, nil once the trigger was moved.
func (t *Trigger) Callback() func() { return t.callback }

// Period returns the repeat interval of a timer trigger, zero otherwise.
func (t *Trigger) Period() time.Duration { return t.period }

// valid reports whether t can be registered.
func (t *Trigger) valid() bool {
	if t == nil || t.fd < 0 || t.callback == nil || !t.events.valid() {
		return false
	}
	switch t.kind {
	case KindExternal, KindTimer:
		return true
	default:
		return false
	}
}

// take moves t into a new Trigger, invalidating t.
func (t *Trigger) take() *Trigger {
	moved := new(Trigger)
	moved.moveFrom(t)
	return moved
}

// moveFrom transfers src into t, invalidating src. Ownership of a timer
// descriptor moves with it, including the unreachable-trigger cleanup.
func (t *Trigger) moveFrom(src *Trigger) {
	t.kind = src.kind
	t.fd = src.fd
	t.events = src.events
	t.callback = src.callback
	t.period = src.period
	src.fd = -1
	src.callback = nil
	if t.kind == KindTimer {
		src.cleanup.Stop()
		src.cleanup = runtime.Cleanup{}
		t.ownDescriptor()
	}
}

// ownDescriptor arranges for the descriptor to be closed if t is dropped
// without Close.
func (t *Trigger) ownDescriptor() {
	t.cleanup.Stop()
	if t.fd >= 0 {
		t.cleanup = runtime.AddCleanup(t, closeDescriptor, t.fd)
	}
}
