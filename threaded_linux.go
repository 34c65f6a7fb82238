//go:build linux

package reactor

import (
	"context"
	"errors"
	"sync"
)

// ThreadedReactor composes a Reactor with a dedicated goroutine, locked to its
// own OS thread, whose sole job is Run.
//
// Delivering the shutdown signal (SIGUSR1 unless WithShutdownSignal is
// given) stops every ThreadedReactor in the process, and nothing else: the
// signal's default disposition is replaced while any ThreadedReactor is
// bound to it.
type ThreadedReactor struct {
	// Prevent copying
	_ [0]func()

	reactor *Reactor
	bridge  *signalBridge
	done    chan struct{}
	runErr  error

	joinOnce sync.Once
	joinErr  error
}

// NewThreaded constructs a Reactor, binds the shutdown signal to its shutdown
// descriptor, and starts the thread driving it.
//
// NewThreaded does not wait for the thread: State may still report
// StateReady, though work may be submitted immediately.
func NewThreaded(opts ...ReactorOption) (*ThreadedReactor, error) {
	cfg, err := resolveReactorOptions(opts)
	if err != nil {
		return nil, err
	}

	r, err := newReactor(cfg)
	if err != nil {
		return nil, err
	}

	t := &ThreadedReactor{
		reactor: r,
		bridge:  bindSignal(cfg.shutdownSignal, r.shutdown, r.logger),
		done:    make(chan struct{}),
	}

	go t.run()

	return t, nil
}

func (t *ThreadedReactor) run() {
	defer close(t.done)
	t.runErr = t.reactor.Run()
}

// RegisterTrigger is Reactor.RegisterTrigger, safe from any goroutine until
// Join returns.
func (t *ThreadedReactor) RegisterTrigger(trigger *Trigger) error {
	return t.reactor.RegisterTrigger(trigger)
}

// UnregisterTrigger is Reactor.UnregisterTrigger.
func (t *ThreadedReactor) UnregisterTrigger(fd int) error {
	return t.reactor.UnregisterTrigger(fd)
}

// AsyncCall is Reactor.AsyncCall.
func (t *ThreadedReactor) AsyncCall(task func()) error {
	return t.reactor.AsyncCall(task)
}

// Stop requests shutdown without sending the signal.
func (t *ThreadedReactor) Stop() error {
	return t.reactor.Stop()
}

// ID returns the identifier of the underlying reactor.
func (t *ThreadedReactor) ID() string { return t.reactor.ID() }

// State returns the state of the underlying reactor.
func (t *ThreadedReactor) State() State { return t.reactor.State() }

// Stats is Reactor.Stats.
func (t *ThreadedReactor) Stats() (Stats, bool) { return t.reactor.Stats() }

// Done is closed once the reactor thread has exited.
func (t *ThreadedReactor) Done() <-chan struct{} { return t.done }

// Join waits for the reactor thread to exit, then unbinds the signal and
// releases every descriptor. It returns the error Run returned (nil after a
// clean shutdown), or ctx.Err() if ctx is done first, in which case Join may
// be called again.
func (t *ThreadedReactor) Join(ctx context.Context) error {
	select {
	case <-t.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	t.joinOnce.Do(func() {
		t.bridge.close()
		t.joinErr = t.runErr
		if err := t.reactor.Close(); err != nil {
			t.joinErr = errors.Join(t.runErr, err)
		}
	})
	return t.joinErr
}
