package services

import (
	"sync"
	"time"
)

type byteSample struct {
	timestamp time.Time
	bytes     int
}

// BandwidthMonitor tracks transferred bytes over a sliding time window
// and derives the current throughput in bytes per second. The pipeline
// calls Record after every frame write while the control loop calls
// Estimate from its own goroutine, so both paths share one lock.
type BandwidthMonitor struct {
	mu         sync.Mutex
	windowSize time.Duration
	samples    []byteSample

	// now is swapped out in tests for deterministic time
	now func() time.Time
}

// NewBandwidthMonitor creates a monitor with the given window size.
func NewBandwidthMonitor(windowSize time.Duration) *BandwidthMonitor {
	if windowSize <= 0 {
		windowSize = 60 * time.Second
	}
	return &BandwidthMonitor{
		windowSize: windowSize,
		now:        time.Now,
	}
}

// Record registers bytes transferred at the current time and evicts
// samples that have fallen out of the window. Samples are appended in
// arrival order, which is also timestamp order.
func (m *BandwidthMonitor) Record(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.samples = append(m.samples, byteSample{timestamp: now, bytes: bytes})

	cut := 0
	for cut < len(m.samples) && now.Sub(m.samples[cut].timestamp) > m.windowSize {
		cut++
	}
	if cut > 0 {
		m.samples = m.samples[cut:]
	}
}

// Estimate returns the throughput over the retained window in bytes per
// second. The divisor is the wall-clock span between the oldest and
// newest fresh sample, floored at one second; with a single sample the
// estimate equals that sample's byte count, with none it is zero.
// Samples that aged out since the last Record are skipped without
// mutating the window.
func (m *BandwidthMonitor) Estimate() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	first := 0
	for first < len(m.samples) && now.Sub(m.samples[first].timestamp) > m.windowSize {
		first++
	}
	fresh := m.samples[first:]
	if len(fresh) == 0 {
		return 0
	}

	total := 0
	for _, s := range fresh {
		total += s.bytes
	}

	elapsed := 1.0
	if len(fresh) > 1 {
		if span := fresh[len(fresh)-1].timestamp.Sub(fresh[0].timestamp).Seconds(); span > elapsed {
			elapsed = span
		}
	}
	return int(float64(total) / elapsed)
}

// WindowSize returns the configured sliding window length.
func (m *BandwidthMonitor) WindowSize() time.Duration {
	return m.windowSize
}
