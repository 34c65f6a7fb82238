//go:build linux

package reactor

import (
	"errors"

	"golang.org/x/sys/unix"
)

// poller is the epoll context of a single reactor. All descriptors are added
// and removed exclusively through it.
type poller struct {
	epfd int
}

// init creates the epoll instance, storing it before returning so the caller
// can guard it.
func (p *poller) init() error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		p.epfd = -1
		return err
	}
	p.epfd = epfd
	return nil
}

func (p *poller) add(fd int, events IOEvents) error {
	ev := unix.EpollEvent{
		Events: eventsToEpoll(events),
		Fd:     int32(fd),
	}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (p *poller) remove(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks indefinitely until at least one descriptor is ready. An
// interrupted wait is retried.
func (p *poller) wait(buf []unix.EpollEvent) (int, error) {
	for {
		n, err := unix.EpollWait(p.epfd, buf, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return n, err
	}
}

// eventsToEpoll converts IOEvents to epoll event flags. Notification is
// level-triggered.
func eventsToEpoll(events IOEvents) uint32 {
	var epollEvents uint32
	if events&EventRead != 0 {
		epollEvents |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		epollEvents |= unix.EPOLLOUT
	}
	return epollEvents
}
