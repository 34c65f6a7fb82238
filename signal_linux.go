//go:build linux

package reactor

import (
	"os"
	"os/signal"

	"github.com/joeycumines/logiface"
)

// signalBridge makes a shutdown notifier readable whenever sig is delivered.
//
// The Go runtime owns the signal masks of its threads, so the signal cannot
// be blocked per thread and read back through signalfd. Instead, the default
// disposition is replaced first (signal.Notify), and a forwarding goroutine
// writes the notifier on each delivery.
type signalBridge struct {
	ch   chan os.Signal
	stop chan struct{}
	done chan struct{}
}

func bindSignal(sig os.Signal, target *notifier, logger *logiface.Logger[logiface.Event]) *signalBridge {
	b := &signalBridge{
		ch:   make(chan os.Signal, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	signal.Notify(b.ch, sig)
	go b.forward(target, logger)
	return b
}

func (b *signalBridge) forward(target *notifier, logger *logiface.Logger[logiface.Event]) {
	defer close(b.done)
	for {
		select {
		case <-b.stop:
			return
		case sig := <-b.ch:
			logger.Notice().
				Stringer("signal", sig).
				Log("shutdown signal received")
			if err := target.notify(); err != nil {
				logger.Warning().
					Err(err).
					Log("shutdown notify failed")
			}
		}
	}
}

// close unbinds the signal and waits for the forwarding goroutine. The
// signal reverts to its previous disposition unless other channels are
// still registered for it.
func (b *signalBridge) close() {
	signal.Stop(b.ch)
	close(b.stop)
	<-b.done
}
