// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

import (
	"errors"
	"os"
	"time"

	"github.com/joeycumines/logiface"
)

// defaultMaxEvents is the number of ready descriptors collected per wait call.
const defaultMaxEvents = 10

// reactorOptions holds configuration options for Reactor creation.
type reactorOptions struct {
	logger         *logiface.Logger[logiface.Event]
	shutdownSignal os.Signal
	maxEvents      int
	metricsEnabled bool
}

// --- Reactor Options ---

// ReactorOption configures a Reactor or ThreadedReactor instance.
type ReactorOption interface {
	applyReactor(*reactorOptions) error
}

// reactorOptionImpl implements ReactorOption.
type reactorOptionImpl struct {
	applyReactorFunc func(*reactorOptions) error
}

func (r *reactorOptionImpl) applyReactor(opts *reactorOptions) error {
	return r.applyReactorFunc(opts)
}

// WithLogger attaches a structured logger. A nil logger disables logging,
// which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) ReactorOption {
	return &reactorOptionImpl{func(opts *reactorOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMaxEvents sets how many ready descriptors a single wait call may
// return. Descriptors beyond the limit stay ready, and are returned by the
// next wait call.
func WithMaxEvents(n int) ReactorOption {
	return &reactorOptionImpl{func(opts *reactorOptions) error {
		if n <= 0 {
			return errors.New("reactor: max events must be positive")
		}
		opts.maxEvents = n
		return nil
	}}
}

// WithMetrics enables runtime metrics collection, see Reactor.Stats.
func WithMetrics(enabled bool) ReactorOption {
	return &reactorOptionImpl{func(opts *reactorOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// WithShutdownSignal sets the signal a ThreadedReactor binds to its shutdown
// descriptor. Defaults to SIGUSR1 (os.Interrupt where SIGUSR1 does not
// exist). It has no effect on a plain Reactor.
func WithShutdownSignal(sig os.Signal) ReactorOption {
	return &reactorOptionImpl{func(opts *reactorOptions) error {
		if sig == nil {
			return errors.New("reactor: nil shutdown signal")
		}
		opts.shutdownSignal = sig
		return nil
	}}
}

// resolveReactorOptions applies ReactorOption instances to reactorOptions.
func resolveReactorOptions(opts []ReactorOption) (*reactorOptions, error) {
	cfg := &reactorOptions{
		maxEvents:      defaultMaxEvents,
		shutdownSignal: defaultShutdownSignal,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyReactor(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// --- Timer Options ---

// timerOptions holds configuration options for timer triggers.
type timerOptions struct {
	initialDelay time.Duration
}

// TimerOption configures a timer trigger.
type TimerOption interface {
	applyTimer(*timerOptions) error
}

type timerOptionImpl struct {
	applyTimerFunc func(*timerOptions) error
}

func (t *timerOptionImpl) applyTimer(opts *timerOptions) error {
	return t.applyTimerFunc(opts)
}

// WithInitialDelay sets the delay before the first expiry. By default the
// first expiry happens one period after creation.
func WithInitialDelay(d time.Duration) TimerOption {
	return &timerOptionImpl{func(opts *timerOptions) error {
		opts.initialDelay = d
		return nil
	}}
}

func resolveTimerOptions(period time.Duration, opts []TimerOption) (*timerOptions, error) {
	cfg := &timerOptions{initialDelay: period}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyTimer(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
