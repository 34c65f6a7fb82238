package reactor

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks runtime statistics for a reactor. It is attached with
// WithMetrics, and read through Reactor.Stats.
//
// Counters are updated on the reactor goroutine and may be read from any
// goroutine.
type Metrics struct {
	// Latency of trigger callbacks and async tasks.
	Latency LatencyMetrics

	triggersFired atomic.Uint64
	tasksExecuted atomic.Uint64
	wakeups       atomic.Uint64
	timerTicks    atomic.Uint64
	registered    atomic.Int64
}

// Stats is a point-in-time copy of Metrics.
type Stats struct {
	Latency LatencySnapshot

	// TriggersFired counts trigger callback invocations.
	TriggersFired uint64
	// TasksExecuted counts async tasks and deferred commands that ran.
	TasksExecuted uint64
	// Wakeups counts readiness events of the wakeup descriptor.
	Wakeups uint64
	// TimerTicks sums the expiration counts read from timer triggers. It
	// exceeds the number of timer callbacks when expirations were missed.
	TimerTicks uint64
	// Registered is the current size of the registration table.
	Registered int
}

// Snapshot copies the counters and computes latency percentiles.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Latency:       m.Latency.Sample(),
		TriggersFired: m.triggersFired.Load(),
		TasksExecuted: m.tasksExecuted.Load(),
		Wakeups:       m.wakeups.Load(),
		TimerTicks:    m.timerTicks.Load(),
		Registered:    int(m.registered.Load()),
	}
}

// sampleSize is the maximum number of latency samples to retain.
const sampleSize = 1000

// LatencyMetrics keeps a rolling window of latency samples.
type LatencyMetrics struct {
	mu          sync.Mutex
	samples     [sampleSize]time.Duration
	sum         time.Duration
	sampleIdx   int
	sampleCount int
}

// LatencySnapshot holds percentiles computed from the retained samples.
type LatencySnapshot struct {
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
	Max   time.Duration
	Mean  time.Duration
	Count int
}

// Record records a latency sample.
func (l *LatencyMetrics) Record(duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// If buffer is full, subtract the old sample that we're replacing
	if l.sampleCount >= sampleSize {
		l.sum -= l.samples[l.sampleIdx]
	}

	l.samples[l.sampleIdx] = duration
	l.sum += duration
	l.sampleIdx++
	if l.sampleIdx >= sampleSize {
		l.sampleIdx = 0
	}
	if l.sampleCount < sampleSize {
		l.sampleCount++
	}
}

// Sample computes percentiles from the retained samples.
func (l *LatencyMetrics) Sample() LatencySnapshot {
	l.mu.Lock()
	count := l.sampleCount
	sorted := make([]time.Duration, count)
	copy(sorted, l.samples[:count])
	sum := l.sum
	l.mu.Unlock()

	if count == 0 {
		return LatencySnapshot{}
	}

	slices.Sort(sorted)

	return LatencySnapshot{
		P50:   sorted[percentileIndex(count, 50)],
		P90:   sorted[percentileIndex(count, 90)],
		P99:   sorted[percentileIndex(count, 99)],
		Max:   sorted[count-1],
		Mean:  sum / time.Duration(count),
		Count: count,
	}
}

// percentileIndex computes the index for a given percentile (0-100).
func percentileIndex(n, p int) int {
	index := (p * n) / 100
	if index >= n {
		return n - 1
	}
	return index
}
