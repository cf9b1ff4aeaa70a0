package registry

import (
	"strconv"

	"github.com/gofhir/csv2fhir"
)

// Allocator produces deterministic synthetic ids. It keeps one running
// counter per record kind, seeded from the configured start offset on first
// use and incremented on every allocation. Counters are never reused, even
// when the owning record is later discarded by a mapper-level validation
// failure; allocation cannot fail.
//
// The allocator is scoped to one bundle conversion and assumes a single
// sequential writer, like the Registry it feeds.
type Allocator struct {
	opts     *csv2fhir.Options
	counters map[csv2fhir.Kind]int
}

// NewAllocator creates an allocator seeded from the options' start offsets.
func NewAllocator(opts *csv2fhir.Options) *Allocator {
	if opts == nil {
		opts = csv2fhir.DefaultOptions()
	}
	return &Allocator{
		opts:     opts,
		counters: make(map[csv2fhir.Kind]int),
	}
}

// Next returns the next counter value for the kind.
func (a *Allocator) Next(kind csv2fhir.Kind) int {
	n, ok := a.counters[kind]
	if !ok {
		n = a.opts.StartOffset(kind)
	}
	a.counters[kind] = n + 1
	return n
}

// NextID composes the next synthetic id as {context}-{letter}-{counter}.
// The context is the owning department encounter id when the caller knows
// one, else the transformed patient id; this keeps ids traceable to the
// owning stay without a registry lookup.
func (a *Allocator) NextID(context string, kind csv2fhir.Kind) string {
	return context + "-" + kind.IDLetter() + "-" + strconv.Itoa(a.Next(kind))
}
