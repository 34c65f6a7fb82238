//go:build linux

package reactor

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
	"golang.org/x/sys/unix"
)

// Reactor is a single-threaded event loop multiplexing triggers (timers,
// arbitrary readiness descriptors) and cross-goroutine task submission into
// one blocking epoll_wait.
//
// Exactly one goroutine may call Run. RegisterTrigger, UnregisterTrigger,
// AsyncCall and Stop are safe to call from any goroutine: they enqueue
// deferred commands which the Run goroutine applies, so the registration
// table is never touched by producers.
type Reactor struct {
	// Prevent copying
	_ [0]func()

	// registration table, mutated only on the Run goroutine
	triggers map[int]*Trigger

	logger  *logiface.Logger[logiface.Event]
	metrics *Metrics

	tasks *taskQueue
	// commands claimed by the final drain, discarded if it aborts
	pending []command

	// descriptors unregistered since the last wait, whose events in the
	// current batch are stale even if the number was registered again
	stale map[int]struct{}

	wakeup   *notifier
	shutdown *notifier

	id     string
	events []unix.EpollEvent
	poller poller

	closeOnce sync.Once
	closeErr  error

	state stateMachine
}

// New acquires the multiplexer, wakeup and shutdown descriptors, and
// registers the latter two, returning a reactor ready to Run.
//
// Failures to acquire a kernel resource are returned as *ConstructionError,
// after releasing every descriptor already acquired.
func New(opts ...ReactorOption) (*Reactor, error) {
	cfg, err := resolveReactorOptions(opts)
	if err != nil {
		return nil, err
	}
	return newReactor(cfg)
}

func newReactor(cfg *reactorOptions) (_ *Reactor, err error) {
	id := uuid.NewString()
	r := &Reactor{
		id:       id,
		triggers: make(map[int]*Trigger),
		tasks:    newTaskQueue(),
		events:   make([]unix.EpollEvent, cfg.maxEvents),
		logger:   reactorLogger(cfg.logger, id),
	}
	if cfg.metricsEnabled {
		r.metrics = &Metrics{}
	}

	var acquired guards
	defer func() {
		if err != nil {
			acquired.releaseAll()
			r.logger.Err().
				Err(err).
				Log("reactor construction failed")
		}
	}()

	if err := r.poller.init(); err != nil {
		return nil, &ConstructionError{Op: "epoll_create1", Err: err}
	}
	acquired.add(&r.poller.epfd)

	if r.wakeup, err = newNotifier(); err != nil {
		return nil, &ConstructionError{Op: "eventfd (wakeup)", Err: err}
	}
	acquired.add(&r.wakeup.fd)

	if r.shutdown, err = newNotifier(); err != nil {
		return nil, &ConstructionError{Op: "eventfd (shutdown)", Err: err}
	}
	acquired.add(&r.shutdown.fd)

	// registered directly, never through RegisterTrigger, so they are polled
	// from the first wait
	if err := r.poller.add(r.shutdown.fd, EventRead); err != nil {
		return nil, &ConstructionError{Op: "epoll_ctl (shutdown)", Err: err}
	}
	if err := r.poller.add(r.wakeup.fd, EventRead); err != nil {
		return nil, &ConstructionError{Op: "epoll_ctl (wakeup)", Err: err}
	}

	r.state.TryTransition(StateConstructing, StateReady)

	r.logger.Debug().
		Int("epoll_fd", r.poller.epfd).
		Int("wakeup_fd", r.wakeup.fd).
		Int("shutdown_fd", r.shutdown.fd).
		Log("reactor constructed")

	return r, nil
}

// ID returns the unique identifier of the reactor, also logged as the
// "reactor" field.
func (r *Reactor) ID() string { return r.id }

// State returns the current lifecycle state.
func (r *Reactor) State() State { return r.state.Load() }

// Stats returns a snapshot of the runtime metrics, and false if metrics were
// not enabled with WithMetrics.
func (r *Reactor) Stats() (Stats, bool) {
	if r.metrics == nil {
		return Stats{}, false
	}
	return r.metrics.Snapshot(), true
}

// RegisterTrigger takes ownership of t and schedules its registration on the
// Run goroutine. It returns without waiting: the trigger is polled from the
// loop iteration that applies the registration, not before.
//
// On error, ownership stays with the caller. A registration that fails on
// the Run goroutine (including a duplicate descriptor) is fatal: Run returns
// a *RegistrationError.
func (r *Reactor) RegisterTrigger(t *Trigger) error {
	if !t.valid() {
		return ErrInvalidTrigger
	}
	if r.state.IsStopped() {
		return ErrReactorStopped
	}
	owned := t.take()
	err := r.enqueue(command{
		run:     func() error { return r.addTrigger(owned) },
		discard: func() { _ = owned.Close() },
	})
	if err != nil {
		t.moveFrom(owned)
	}
	return err
}

// UnregisterTrigger schedules removal of the trigger registered for fd,
// closing its descriptor if the trigger owns it. Unknown descriptors are
// ignored.
//
// The caller must not close an external descriptor until the removal has
// been applied, e.g. from a task submitted after this call.
func (r *Reactor) UnregisterTrigger(fd int) error {
	if fd < 0 {
		return ErrInvalidTrigger
	}
	return r.enqueue(command{run: func() error {
		r.removeTrigger(fd)
		return nil
	}})
}

// AsyncCall schedules task to run on the Run goroutine. Tasks run in the
// order they were enqueued, never concurrently with each other or with
// trigger callbacks. A task may itself call AsyncCall or RegisterTrigger.
func (r *Reactor) AsyncCall(task func()) error {
	if task == nil {
		return ErrNilTask
	}
	return r.enqueue(command{run: func() error {
		task()
		return nil
	}})
}

// Stop requests shutdown, equivalent to delivering the shutdown signal to a
// ThreadedReactor. Once the loop observes it the state becomes
// StateStopping, and Run returns after finishing the current batch of events
// and the tasks already queued. Stop is idempotent.
func (r *Reactor) Stop() error {
	if r.state.IsStopped() {
		return nil
	}
	if err := r.shutdown.notify(); err != nil && !errors.Is(err, errNotifierClosed) {
		return err
	}
	return nil
}

// Run drives the wait loop on the calling goroutine, locked to its OS
// thread, until shutdown or a fatal error.
//
// Fatal errors stop the reactor: *RuntimeWaitError, *RegistrationError, or
// PanicError if a callback or task panicked. Callback faults are not
// isolated.
func (r *Reactor) Run() (err error) {
	if !r.state.TryTransition(StateReady, StateRunning) {
		if r.state.IsActive() {
			return ErrAlreadyRunning
		}
		return ErrReactorStopped
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r.logger.Info().Log("reactor running")

	defer func() {
		if v := recover(); v != nil {
			err = PanicError{Value: v}
		}
		r.finish(err)
	}()

	return r.loop()
}

func (r *Reactor) loop() error {
	for {
		clear(r.stale)

		n, err := r.poller.wait(r.events)
		if err != nil {
			return &RuntimeWaitError{Err: err}
		}

		var stop bool
		for i := 0; i < n; i++ {
			switch fd := int(r.events[i].Fd); fd {
			case r.wakeup.fd:
				if err := r.runTasks(); err != nil {
					return err
				}
			case r.shutdown.fd:
				if _, err := r.shutdown.drain(); err != nil {
					r.logger.Warning().
						Err(err).
						Log("shutdown drain failed")
				}
				stop = true
				r.state.TryTransition(StateRunning, StateStopping)
			default:
				r.dispatch(fd)
			}
		}

		if stop {
			r.logger.Info().Log("reactor shutdown requested")
			return r.drainFinal()
		}
	}
}

// runTasks drains the wakeup counter, then runs the commands queued at that
// point. Commands queued while running wrote the wakeup descriptor again, so
// they run on the next iteration.
func (r *Reactor) runTasks() error {
	if _, err := r.wakeup.drain(); err != nil {
		r.logger.Warning().
			Err(err).
			Log("wakeup drain failed")
	}
	if r.metrics != nil {
		r.metrics.wakeups.Add(1)
	}
	for n := r.tasks.length(); n > 0; n-- {
		c, ok := r.tasks.pop()
		if !ok {
			break
		}
		if err := r.execute(c); err != nil {
			return err
		}
	}
	return nil
}

// drainFinal closes the queue and runs every command it held, so that work
// enqueued before shutdown is never lost.
func (r *Reactor) drainFinal() error {
	r.pending = r.tasks.close()
	for len(r.pending) != 0 {
		c := r.pending[0]
		r.pending = r.pending[1:]
		if err := r.execute(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reactor) execute(c command) error {
	if r.metrics == nil {
		return c.run()
	}
	start := time.Now()
	err := c.run()
	r.metrics.Latency.Record(time.Since(start))
	r.metrics.tasksExecuted.Add(1)
	return err
}

// dispatch runs the callback for fd, then acknowledges the event exactly
// once. The acknowledgment always follows the callback, so a level-triggered
// source is drained only after it was handled.
func (r *Reactor) dispatch(fd int) {
	if _, ok := r.stale[fd]; ok {
		r.logger.Debug().
			Int("fd", fd).
			Log("stale event for unregistered descriptor")
		return
	}
	t, ok := r.triggers[fd]
	if !ok {
		// removed earlier in this batch
		r.logger.Debug().
			Int("fd", fd).
			Log("event for unregistered descriptor")
		return
	}

	var start time.Time
	if r.metrics != nil {
		start = time.Now()
	}

	t.callback()

	ticks, err := t.acknowledge()
	if err != nil {
		r.logger.Debug().
			Int("fd", fd).
			Stringer("kind", t.kind).
			Err(err).
			Log("acknowledge failed")
	}

	if r.metrics != nil {
		r.metrics.Latency.Record(time.Since(start))
		r.metrics.triggersFired.Add(1)
		r.metrics.timerTicks.Add(ticks)
	}
}

func (r *Reactor) addTrigger(t *Trigger) error {
	fd := t.fd
	if _, ok := r.triggers[fd]; ok {
		_ = t.Close()
		return &RegistrationError{Descriptor: fd, Err: ErrDescriptorRegistered}
	}
	if err := r.poller.add(fd, t.events); err != nil {
		_ = t.Close()
		return &RegistrationError{Descriptor: fd, Err: err}
	}
	r.triggers[fd] = t
	if r.metrics != nil {
		r.metrics.registered.Add(1)
	}
	r.logger.Debug().
		Int("fd", fd).
		Stringer("kind", t.kind).
		Stringer("events", t.events).
		Log("trigger registered")
	return nil
}

func (r *Reactor) removeTrigger(fd int) {
	t, ok := r.triggers[fd]
	if !ok {
		r.logger.Warning().
			Int("fd", fd).
			Log("unregister of unknown descriptor")
		return
	}
	delete(r.triggers, fd)
	if r.stale == nil {
		r.stale = make(map[int]struct{})
	}
	r.stale[fd] = struct{}{}
	if r.metrics != nil {
		r.metrics.registered.Add(-1)
	}
	// EBADF/ENOENT if the owner already closed it, which removed it from the
	// epoll set anyway
	if err := r.poller.remove(fd); err != nil {
		r.logger.Debug().
			Int("fd", fd).
			Err(err).
			Log("epoll_ctl del failed")
	}
	if err := t.Close(); err != nil {
		r.logger.Warning().
			Int("fd", fd).
			Err(err).
			Log("close trigger failed")
	}
	r.logger.Debug().
		Int("fd", fd).
		Stringer("kind", t.kind).
		Log("trigger unregistered")
}

// enqueue pushes c under the queue lock, then wakes the loop. The wakeup
// write is non-blocking.
func (r *Reactor) enqueue(c command) error {
	if r.state.IsStopped() {
		return ErrReactorStopped
	}
	if err := r.tasks.push(c); err != nil {
		return err
	}
	if err := r.wakeup.notify(); err != nil {
		// closed concurrently, Close discards the command
		r.logger.Debug().
			Err(err).
			Log("wakeup failed")
	}
	return nil
}

// finish runs as Run exits, on the Run goroutine.
func (r *Reactor) finish(err error) {
	for _, c := range r.pending {
		if c.discard != nil {
			c.discard()
		}
	}
	r.pending = nil
	for _, c := range r.tasks.close() {
		if c.discard != nil {
			c.discard()
		}
	}

	if err != nil {
		r.logger.Err().
			Err(err).
			Log("reactor stopped")
	} else {
		r.logger.Info().Log("reactor stopped")
	}

	// must be last, Close may proceed as soon as it is observed
	if !r.state.TryTransition(StateStopping, StateStopped) {
		r.state.TryTransition(StateRunning, StateStopped)
	}
}

// Close releases every descriptor owned by the reactor, including those of
// registered timer triggers and of registrations that never ran. External
// descriptors are left open.
//
// Close must not be called while Run is executing (ErrReactorRunning). It is
// idempotent.
func (r *Reactor) Close() error {
	if !r.state.TryTransition(StateReady, StateStopped) && r.state.IsActive() {
		return ErrReactorRunning
	}
	r.closeOnce.Do(func() {
		r.closeErr = r.release()
	})
	return r.closeErr
}

func (r *Reactor) release() error {
	for _, c := range r.tasks.close() {
		if c.discard != nil {
			c.discard()
		}
	}

	var errs []error
	for fd, t := range r.triggers {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.triggers, fd)
	}
	if r.metrics != nil {
		r.metrics.registered.Store(0)
	}

	if err := r.wakeup.close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.shutdown.close(); err != nil {
		errs = append(errs, err)
	}
	if err := guardFD(&r.poller.epfd).release(); err != nil {
		errs = append(errs, err)
	}

	r.logger.Debug().Log("reactor closed")

	return errors.Join(errs...)
}
