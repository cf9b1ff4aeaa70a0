package csv2fhir

import (
	"sync/atomic"
	"time"
)

// Metrics tracks run-wide conversion metrics using lock-free atomic
// operations. All methods are safe for concurrent use; parallel bundle
// workers share one Metrics instance.
type Metrics struct {
	bundlesTotal atomic.Uint64
	recordsTotal atomic.Uint64

	// Finding counts by class
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	ignoredTotal  atomic.Uint64
	validTotal    atomic.Uint64

	// Timing (stored as nanoseconds)
	conversionTimeTotal atomic.Uint64
	conversionTimeMax   atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBundle records one completed bundle conversion.
func (m *Metrics) RecordBundle(records int, counts Counts, duration time.Duration) {
	m.bundlesTotal.Add(1)
	m.recordsTotal.Add(uint64(records))
	m.errorsTotal.Add(uint64(counts.Errors))
	m.warningsTotal.Add(uint64(counts.Warnings))
	m.ignoredTotal.Add(uint64(counts.Ignored))
	m.validTotal.Add(uint64(counts.Valid))

	ns := uint64(duration.Nanoseconds())
	m.conversionTimeTotal.Add(ns)
	for {
		max := m.conversionTimeMax.Load()
		if ns <= max || m.conversionTimeMax.CompareAndSwap(max, ns) {
			break
		}
	}
}

// Bundles returns the number of converted bundles.
func (m *Metrics) Bundles() uint64 { return m.bundlesTotal.Load() }

// Records returns the number of registered records across all bundles.
func (m *Metrics) Records() uint64 { return m.recordsTotal.Load() }

// Counts returns the run-wide finding counts.
func (m *Metrics) Counts() Counts {
	return Counts{
		Errors:   int(m.errorsTotal.Load()),
		Warnings: int(m.warningsTotal.Load()),
		Ignored:  int(m.ignoredTotal.Load()),
		Valid:    int(m.validTotal.Load()),
	}
}

// TotalDuration returns the summed conversion time across bundles.
func (m *Metrics) TotalDuration() time.Duration {
	return time.Duration(m.conversionTimeTotal.Load())
}

// MaxDuration returns the longest single bundle conversion.
func (m *Metrics) MaxDuration() time.Duration {
	return time.Duration(m.conversionTimeMax.Load())
}
