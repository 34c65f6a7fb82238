package reactor

import (
	"sync"

	"github.com/eapache/queue"
)

// command is a deferred unit of work applied on the reactor goroutine.
//
// discard, if set, releases whatever the command owns when it is dropped
// without running (the reactor was closed first).
type command struct {
	run     func() error
	discard func()
}

// taskQueue is the FIFO shared between producers (any goroutine) and the
// reactor goroutine. The lock is held strictly for enqueue and dequeue,
// never while a command runs.
type taskQueue struct {
	mu     sync.Mutex
	q      *queue.Queue
	closed bool
}

func newTaskQueue() *taskQueue {
	return &taskQueue{q: queue.New()}
}

// push appends c, failing with ErrReactorStopped once the queue is closed.
func (x *taskQueue) push(c command) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return ErrReactorStopped
	}
	x.q.Add(c)
	return nil
}

// pop removes the oldest command.
func (x *taskQueue) pop() (command, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.q.Length() == 0 {
		return command{}, false
	}
	return x.q.Remove().(command), true
}

// length returns the number of queued commands.
func (x *taskQueue) length() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.q.Length()
}

// close rejects further pushes and returns the commands that never ran, in
// order.
func (x *taskQueue) close() []command {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.closed = true
	var dropped []command
	for x.q.Length() != 0 {
		dropped = append(dropped, x.q.Remove().(command))
	}
	return dropped
}
