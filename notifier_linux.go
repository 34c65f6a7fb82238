//go:build linux

package reactor

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"
)

// errNotifierClosed is returned by notify after close.
var errNotifierClosed = errors.New("reactor: notifier closed")

// notifier is a counting, level-triggered eventfd. It is readable while its
// counter is non-zero, and draining resets the counter to zero.
//
// notify may be called from any goroutine, the RWMutex keeps those writes
// from racing close (and a recycled descriptor number).
type notifier struct {
	mu sync.RWMutex
	fd int
}

func newNotifier() (*notifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &notifier{fd: fd}, nil
}

// notify performs a non-blocking write of 1. A saturated counter (EAGAIN)
// is still readable, so it is not an error.
func (n *notifier) notify() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.fd < 0 {
		return errNotifierClosed
	}
	if err := writeCounter(n.fd, 1); err != nil && !errors.Is(err, unix.EAGAIN) {
		return err
	}
	return nil
}

// drain reads and resets the counter, returning the accumulated value. It
// must only be called from the goroutine that polls the descriptor.
func (n *notifier) drain() (uint64, error) {
	v, err := readCounter(n.fd)
	if errors.Is(err, unix.EAGAIN) {
		return 0, nil
	}
	return v, err
}

func (n *notifier) close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return guardFD(&n.fd).release()
}
