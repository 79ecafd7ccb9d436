// Package bloom provides feed entry deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by feed entry IDs. Ingestion keeps one
// per poll run to skip entries it has already handed to the upsert path;
// across runs the document upsert is the source of truth, so false
// positives only cost a redundant database lookup.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds an entry ID to the filter.
func (f *Filter) Add(id string) {
	f.f.AddString(id)
}

// Test returns true if the entry ID might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(id string) bool {
	return f.f.TestString(id)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
