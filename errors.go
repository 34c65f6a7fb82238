package reactor

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrConstruction is matched by every error returned when a kernel
	// resource required by a constructor cannot be created or armed.
	ErrConstruction = errors.New("reactor: construction failed")

	// ErrRegistration is matched by errors returned from Run when a deferred
	// registration could not be applied to the multiplexer.
	ErrRegistration = errors.New("reactor: registration failed")

	// ErrRuntimeWait is matched by errors returned from Run when the wait call
	// fails for any reason other than interruption.
	ErrRuntimeWait = errors.New("reactor: wait failed")

	// ErrAlreadyRunning is returned when Run is called on a running reactor.
	ErrAlreadyRunning = errors.New("reactor: already running")

	// ErrReactorRunning is returned by Close while Run is active.
	ErrReactorRunning = errors.New("reactor: cannot close while running")

	// ErrReactorStopped is returned when work is submitted to, or Run is
	// called on, a reactor that has stopped.
	ErrReactorStopped = errors.New("reactor: stopped")

	// ErrInvalidTrigger is returned when registering a nil trigger, or one
	// without a valid descriptor or callback.
	ErrInvalidTrigger = errors.New("reactor: invalid trigger")

	// ErrNilTask is returned by AsyncCall for a nil task.
	ErrNilTask = errors.New("reactor: nil task")

	// ErrDescriptorRegistered indicates a descriptor was registered twice.
	ErrDescriptorRegistered = errors.New("reactor: descriptor already registered")

	// ErrUnsupported is returned by constructors on platforms without epoll.
	ErrUnsupported = errors.New("reactor: platform not supported")
)

// ConstructionError reports a kernel resource the reactor could not acquire.
// Err is typically a unix.Errno, whose text is the OS diagnostic.
type ConstructionError struct {
	Err error
	Op  string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("reactor: %s: %v", e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Is matches ErrConstruction.
func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

// TimerCreationError reports a timer descriptor that could not be created or
// armed.
type TimerCreationError struct {
	Err error
	Op  string
}

func (e *TimerCreationError) Error() string {
	return fmt.Sprintf("reactor: timer %s: %v", e.Op, e.Err)
}

func (e *TimerCreationError) Unwrap() error { return e.Err }

// Is matches ErrConstruction.
func (e *TimerCreationError) Is(target error) bool { return target == ErrConstruction }

// RegistrationError reports a deferred registration that failed on the
// reactor goroutine. It is fatal to the loop.
type RegistrationError struct {
	Err        error
	Descriptor int
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("reactor: register fd %d: %v", e.Descriptor, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Is matches ErrRegistration.
func (e *RegistrationError) Is(target error) bool { return target == ErrRegistration }

// RuntimeWaitError reports a non-interruption failure of the wait call.
type RuntimeWaitError struct {
	Err error
}

func (e *RuntimeWaitError) Error() string {
	return fmt.Sprintf("reactor: epoll_wait: %v", e.Err)
}

func (e *RuntimeWaitError) Unwrap() error { return e.Err }

// Is matches ErrRuntimeWait.
func (e *RuntimeWaitError) Is(target error) bool { return target == ErrRuntimeWait }

// PanicError wraps a value recovered from a callback or task that panicked.
// Faults are not isolated per callback, the loop stops and Run returns this.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("reactor: callback panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error, enabling [errors.Is] and
// [errors.As] through the panic.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
