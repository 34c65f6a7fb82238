//go:build !linux

package reactor

import (
	"context"
	"time"
)

// Reactor requires epoll, it cannot be constructed on this platform.
type Reactor struct {
	_ [0]func()
}

// New returns ErrUnsupported.
func New(opts ...ReactorOption) (*Reactor, error) {
	if _, err := resolveReactorOptions(opts); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

func (r *Reactor) ID() string                          { return "" }
func (r *Reactor) State() State                        { return StateStopped }
func (r *Reactor) Stats() (Stats, bool)                { return Stats{}, false }
func (r *Reactor) RegisterTrigger(t *Trigger) error    { return ErrUnsupported }
func (r *Reactor) UnregisterTrigger(fd int) error      { return ErrUnsupported }
func (r *Reactor) AsyncCall(task func()) error         { return ErrUnsupported }
func (r *Reactor) Stop() error                         { return ErrUnsupported }
func (r *Reactor) Run() error                          { return ErrUnsupported }
func (r *Reactor) Close() error                        { return nil }

// ThreadedReactor requires epoll, it cannot be constructed on this platform.
type ThreadedReactor struct {
	_ [0]func()
}

// NewThreaded returns ErrUnsupported.
func NewThreaded(opts ...ReactorOption) (*ThreadedReactor, error) {
	if _, err := resolveReactorOptions(opts); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

func (t *ThreadedReactor) ID() string                             { return "" }
func (t *ThreadedReactor) State() State                           { return StateStopped }
func (t *ThreadedReactor) Stats() (Stats, bool)                   { return Stats{}, false }
func (t *ThreadedReactor) RegisterTrigger(trigger *Trigger) error { return ErrUnsupported }
func (t *ThreadedReactor) UnregisterTrigger(fd int) error         { return ErrUnsupported }
func (t *ThreadedReactor) AsyncCall(task func()) error            { return ErrUnsupported }
func (t *ThreadedReactor) Stop() error                            { return ErrUnsupported }
func (t *ThreadedReactor) Join(ctx context.Context) error         { return ErrUnsupported }

// NewTimerTrigger returns a *TimerCreationError wrapping ErrUnsupported.
func NewTimerTrigger(period time.Duration, callback func(), opts ...TimerOption) (*Trigger, error) {
	return nil, &TimerCreationError{Op: "create", Err: ErrUnsupported}
}

// Close is a no-op, no descriptor can be owned on this platform.
func (t *Trigger) Close() error { return nil }

func closeDescriptor(int) {}
