//go:build linux

package reactor

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fdGuard releases the descriptor stored at fd exactly once. It does not own
// the storage, only what it holds: release closes the descriptor, retrying
// while close reports EINTR, then invalidates the storage to -1.
type fdGuard struct {
	fd *int
}

// guardFD binds a guard to fd. Call it immediately after the syscall that
// produced the descriptor.
func guardFD(fd *int) fdGuard {
	return fdGuard{fd: fd}
}

// release closes the guarded descriptor. It is a no-op if the descriptor was
// already invalidated.
func (g fdGuard) release() error {
	if g.fd == nil || *g.fd < 0 {
		return nil
	}
	err := unix.Close(*g.fd)
	for errors.Is(err, unix.EINTR) {
		err = unix.Close(*g.fd)
	}
	*g.fd = -1
	return err
}

// closeDescriptor releases fd, for use where only the number is held.
func closeDescriptor(fd int) {
	_ = guardFD(&fd).release()
}

// guards accumulates the guards of a constructor in acquisition order.
type guards []fdGuard

func (x *guards) add(fd *int) {
	*x = append(*x, guardFD(fd))
}

// releaseAll releases in reverse acquisition order.
func (x guards) releaseAll() {
	for i := len(x) - 1; i >= 0; i-- {
		_ = x[i].release()
	}
}

// readCounter reads the 8-byte counter exposed by eventfd and timerfd
// descriptors.
func readCounter(fd int) (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, unix.EIO
	}
	// native endianness, as the kernel writes it
	return *(*uint64)(unsafe.Pointer(&buf[0])), nil
}

// writeCounter adds v to an eventfd counter.
func writeCounter(fd int, v uint64) error {
	buf := (*[8]byte)(unsafe.Pointer(&v))[:]
	_, err := unix.Write(fd, buf)
	return err
}
