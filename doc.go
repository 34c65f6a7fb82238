// Package reactor provides a single-threaded, epoll-based reactor for Linux:
// one goroutine, locked to its OS thread, multiplexes periodic timers,
// readiness of arbitrary descriptors, and work submitted from other
// goroutines into a single blocking wait.
//
// # Architecture
//
// A [Reactor] owns three descriptors from construction: the epoll instance,
// a wakeup eventfd, and a shutdown eventfd. Event sources are [Trigger]
// values, created with [NewTimerTrigger] (a timerfd owned by the trigger) or
// [NewExternalTrigger] (a descriptor owned by the caller). Registering a
// trigger moves it into the reactor, which closes owned descriptors on
// [Reactor.UnregisterTrigger] and [Reactor.Close].
//
// A [ThreadedReactor] runs a Reactor on a dedicated thread, and stops it when
// the shutdown signal (SIGUSR1 by default) is delivered to the process.
//
// # Thread Safety
//
// The registration table is only accessed by the goroutine in [Reactor.Run]:
//   - [Reactor.RegisterTrigger], [Reactor.UnregisterTrigger] and
//     [Reactor.AsyncCall] enqueue a deferred command under a mutex, then write
//     the wakeup descriptor
//   - [Reactor.Stop] writes the shutdown descriptor
//   - callbacks and tasks never run concurrently with each other
//
// A registration is therefore applied asynchronously: the trigger is polled
// from the iteration that drains the command, not from the call.
//
// # Execution Model
//
// Each iteration waits indefinitely, then for every ready descriptor:
//  1. Wakeup: drain the counter, then run the commands queued at that point
//  2. Shutdown: finish the batch, run every queued command, and return
//  3. Otherwise: invoke the callback, then acknowledge the event (read the
//     timer tick count, or one 8-byte read of an external descriptor)
//
// Notification is level-triggered, so a source that is not acknowledged is
// reported again.
//
// # Usage
//
//	tr, err := reactor.NewThreaded(
//	    reactor.WithLogger(reactor.NewLogger(os.Stderr, logiface.LevelInformational)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	trigger, err := reactor.NewTimerTrigger(time.Second, func() {
//	    fmt.Println("tick")
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := tr.RegisterTrigger(trigger); err != nil {
//	    log.Fatal(err)
//	}
//
//	// kill -USR1 <pid>
//	if err := tr.Join(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Types
//
//   - [ConstructionError]: a kernel resource could not be acquired by [New]
//   - [TimerCreationError]: a timer could not be created or armed
//   - [RegistrationError]: a deferred registration failed, fatal to Run
//   - [RuntimeWaitError]: the wait call failed, fatal to Run
//   - [PanicError]: a callback or task panicked, fatal to Run
//
// Interrupted waits are retried, and never surface as errors.
package reactor
