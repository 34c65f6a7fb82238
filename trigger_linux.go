//go:build linux

package reactor

import (
	"errors"
	"runtime"

	"golang.org/x/sys/unix"
)

// Close releases the descriptor of an owned trigger that was never
// registered. It is a no-op for external and moved-from triggers.
func (t *Trigger) Close() error {
	if t == nil || t.kind != KindTimer {
		return nil
	}
	t.cleanup.Stop()
	t.cleanup = runtime.Cleanup{}
	t.callback = nil
	return guardFD(&t.fd).release()
}

// acknowledge performs the kind-specific drain read, once per readiness
// event and always after the callback. It returns the timer expiration
// count, zero for other kinds.
func (t *Trigger) acknowledge() (uint64, error) {
	switch t.kind {
	case KindTimer:
		ticks, err := readCounter(t.fd)
		if errors.Is(err, unix.EAGAIN) {
			return 0, nil
		}
		return ticks, err
	case KindExternal:
		// a write-interest source may carry inbound data that is not ours
		if t.events&EventRead == 0 {
			return 0, nil
		}
		var buf [8]byte
		if _, err := unix.Read(t.fd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
			return 0, err
		}
		return 0, nil
	default:
		return 0, nil
	}
}
