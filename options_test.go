// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package reactor

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
)

func TestResolveReactorOptions_Defaults(t *testing.T) {
	cfg, err := resolveReactorOptions(nil)
	if err != nil {
		t.Fatalf("resolveReactorOptions(nil) failed: %v", err)
	}
	if cfg.maxEvents != defaultMaxEvents {
		t.Errorf("maxEvents = %d, want %d", cfg.maxEvents, defaultMaxEvents)
	}
	if cfg.shutdownSignal != defaultShutdownSignal {
		t.Errorf("shutdownSignal = %v, want %v", cfg.shutdownSignal, defaultShutdownSignal)
	}
	if cfg.logger != nil {
		t.Error("logger should default to nil")
	}
	if cfg.metricsEnabled {
		t.Error("metrics should default to disabled")
	}
}

func TestResolveReactorOptions_Custom(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, logiface.LevelDebug)

	cfg, err := resolveReactorOptions([]ReactorOption{
		WithLogger(logger),
		nil,
		WithMaxEvents(64),
		WithMetrics(true),
		WithShutdownSignal(os.Interrupt),
	})
	if err != nil {
		t.Fatalf("resolveReactorOptions failed: %v", err)
	}
	if cfg.logger != logger {
		t.Error("logger not applied")
	}
	if cfg.maxEvents != 64 {
		t.Errorf("maxEvents = %d, want 64", cfg.maxEvents)
	}
	if !cfg.metricsEnabled {
		t.Error("metrics not enabled")
	}
	if cfg.shutdownSignal != os.Interrupt {
		t.Errorf("shutdownSignal = %v, want %v", cfg.shutdownSignal, os.Interrupt)
	}
}

func TestResolveReactorOptions_Invalid(t *testing.T) {
	for name, opt := range map[string]ReactorOption{
		"zero max events":     WithMaxEvents(0),
		"negative max events": WithMaxEvents(-1),
		"nil signal":          WithShutdownSignal(nil),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := resolveReactorOptions([]ReactorOption{opt}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestResolveTimerOptions(t *testing.T) {
	cfg, err := resolveTimerOptions(5*time.Second, nil)
	if err != nil {
		t.Fatalf("resolveTimerOptions failed: %v", err)
	}
	if cfg.initialDelay != 5*time.Second {
		t.Errorf("initialDelay = %v, want the period", cfg.initialDelay)
	}

	cfg, err = resolveTimerOptions(5*time.Second, []TimerOption{nil, WithInitialDelay(time.Millisecond)})
	if err != nil {
		t.Fatalf("resolveTimerOptions failed: %v", err)
	}
	if cfg.initialDelay != time.Millisecond {
		t.Errorf("initialDelay = %v, want 1ms", cfg.initialDelay)
	}
}
