package csv2fhir

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRecordBundle(t *testing.T) {
	m := NewMetrics()
	m.RecordBundle(10, Counts{Errors: 1, Warnings: 2, Valid: 7}, 20*time.Millisecond)
	m.RecordBundle(5, Counts{Valid: 5}, 50*time.Millisecond)

	if m.Bundles() != 2 {
		t.Errorf("bundles = %d", m.Bundles())
	}
	if m.Records() != 15 {
		t.Errorf("records = %d", m.Records())
	}
	c := m.Counts()
	if c.Errors != 1 || c.Warnings != 2 || c.Valid != 12 {
		t.Errorf("counts = %+v", c)
	}
	if m.TotalDuration() != 70*time.Millisecond {
		t.Errorf("total duration = %v", m.TotalDuration())
	}
	if m.MaxDuration() != 50*time.Millisecond {
		t.Errorf("max duration = %v", m.MaxDuration())
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordBundle(2, Counts{Valid: 2}, time.Millisecond)
		}()
	}
	wg.Wait()
	if m.Bundles() != 50 {
		t.Errorf("bundles = %d", m.Bundles())
	}
	if m.Records() != 100 {
		t.Errorf("records = %d", m.Records())
	}
}
