//go:build linux

package reactor

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

var errNonPositiveDuration = errors.New("duration must be positive")

// NewTimerTrigger creates a trigger owning a periodic timer descriptor. The
// timer first expires after the initial delay (the period, unless
// WithInitialDelay is given), then every period. Its interest is fixed to
// EventRead.
//
// The descriptor is owned by the returned trigger until it is registered.
// Call Close on a trigger that is never registered; a trigger dropped
// without Close has its descriptor released once it is garbage collected.
func NewTimerTrigger(period time.Duration, callback func(), opts ...TimerOption) (*Trigger, error) {
	cfg, err := resolveTimerOptions(period, opts)
	if err != nil {
		return nil, err
	}
	if period <= 0 {
		return nil, &TimerCreationError{Op: "period", Err: errNonPositiveDuration}
	}
	if cfg.initialDelay <= 0 {
		return nil, &TimerCreationError{Op: "initial delay", Err: errNonPositiveDuration}
	}

	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, &TimerCreationError{Op: "timerfd_create", Err: err}
	}
	guard := guardFD(&fd)

	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(period.Nanoseconds()),
		Value:    unix.NsecToTimespec(cfg.initialDelay.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		_ = guard.release()
		return nil, &TimerCreationError{Op: "timerfd_settime", Err: err}
	}

	t := &Trigger{
		kind:     KindTimer,
		fd:       fd,
		events:   EventRead,
		callback: callback,
		period:   period,
	}
	t.ownDescriptor()
	return t, nil
}
