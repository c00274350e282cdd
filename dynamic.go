package bloom

import "go.uber.org/zap"

// DynamicFilter chains StaticFilters so that the element count need not be
// known up front. Every segment has the same size and hash count, computed
// once from the expected element count and target false positive rate.
// Only the newest segment takes adds; when it has seen SegmentCapacity adds
// a fresh segment is appended.
//
// Queries OR across all segments, so the chain never gives a false negative,
// but its false positive rate compounds as 1 - prod(1 - p_i) and rises with
// every segment.
type DynamicFilter struct {
	expectedElements uint64
	fpRate           float64
	segmentSize      uint64
	hashCount        uint32
	segmentCapacity  uint64

	segments []*StaticFilter

	canonical Canonicalizer
	logger    *zap.Logger
	observer  Observer
}

// New builds a DynamicFilter sized for expectedElements adds per segment at
// targetFPRate. All errors are *ConfigError.
func New(expectedElements uint64, targetFPRate float64, opts ...Option) (*DynamicFilter, error) {
	if err := CheckParams(expectedElements, targetFPRate); err != nil {
		return nil, err
	}
	size := OptimalSize(expectedElements, targetFPRate)
	k := OptimalHashCount(size, expectedElements)
	first, err := NewStaticFilter(size, k)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f := &DynamicFilter{
		expectedElements: expectedElements,
		fpRate:           targetFPRate,
		segmentSize:      size,
		hashCount:        k,
		segmentCapacity:  expectedElements,
		segments:         []*StaticFilter{first},
		canonical:        o.canonical,
		logger:           o.logger,
		observer:         o.observer,
	}
	f.logger.Debug("bloom filter created",
		zap.Uint64("expected_elements", expectedElements),
		zap.Float64("target_fp_rate", targetFPRate),
		zap.Uint64("segment_size", size),
		zap.Uint32("hash_count", k),
	)
	f.observer.OnSegmentAllocated(0, size, k)
	return f, nil
}

// Add inserts v after canonicalisation.
func (f *DynamicFilter) Add(v any) { f.AddString(f.canonical(v)) }

// AddString inserts s into the newest segment, growing the chain first when
// that segment is saturated.
func (f *DynamicFilter) AddString(s string) {
	last := f.segments[len(f.segments)-1]
	if last.Count() >= f.segmentCapacity {
		last = f.grow()
	}
	last.AddString(s)
	f.observer.OnAdd(len(f.segments) - 1)
}

func (f *DynamicFilter) grow() *StaticFilter {
	// shape was validated in New
	seg, _ := NewStaticFilter(f.segmentSize, f.hashCount)
	f.segments = append(f.segments, seg)

	idx := len(f.segments) - 1
	f.logger.Debug("bloom segment allocated",
		zap.Int("segment", idx),
		zap.Uint64("size", f.segmentSize),
		zap.Uint32("hash_count", f.hashCount),
		zap.Uint64("capacity", f.segmentCapacity),
	)
	f.observer.OnSegmentAllocated(idx, f.segmentSize, f.hashCount)
	return seg
}

// MayContain reports whether v may have been added.
func (f *DynamicFilter) MayContain(v any) bool { return f.MayContainString(f.canonical(v)) }

// MayContainString returns false only if s was definitely never added.
func (f *DynamicFilter) MayContainString(s string) bool {
	// all segments share one shape, so one hash pair serves them all
	h0, h1 := HashPair(s)
	found := false
	for i := len(f.segments) - 1; i >= 0; i-- {
		if f.segments[i].matchHashes(h0, h1) {
			found = true
			break
		}
	}
	f.observer.OnQuery(found)
	return found
}

// Positions returns the bit positions v maps to in the newest segment.
func (f *DynamicFilter) Positions(v any) []uint64 {
	return f.segments[len(f.segments)-1].Positions(f.canonical(v))
}

// EstimatedFalsePositiveRate combines the per-segment estimates as
// 1 - prod(1 - p_i).
func (f *DynamicFilter) EstimatedFalsePositiveRate() float64 {
	miss := 1.0
	for _, seg := range f.segments {
		miss *= 1 - seg.EstimatedFalsePositiveRate()
	}
	return 1 - miss
}

func (f *DynamicFilter) ExpectedElements() uint64         { return f.expectedElements }
func (f *DynamicFilter) TargetFalsePositiveRate() float64 { return f.fpRate }
func (f *DynamicFilter) SegmentSize() uint64              { return f.segmentSize }
func (f *DynamicFilter) SegmentCapacity() uint64          { return f.segmentCapacity }
func (f *DynamicFilter) HashCount() uint32                { return f.hashCount }
func (f *DynamicFilter) SegmentCount() int                { return len(f.segments) }

// Segment returns the i-th segment in allocation order. Callers must treat
// it as read-only.
func (f *DynamicFilter) Segment(i int) *StaticFilter { return f.segments[i] }

// Count returns the total number of adds across all segments.
func (f *DynamicFilter) Count() uint64 {
	var n uint64
	for _, seg := range f.segments {
		n += seg.Count()
	}
	return n
}

// Stats snapshots the configuration and every segment.
func (f *DynamicFilter) Stats() Stats {
	st := Stats{
		ExpectedElements:           f.expectedElements,
		TargetFalsePositiveRate:    f.fpRate,
		SegmentSize:                f.segmentSize,
		SegmentCapacity:            f.segmentCapacity,
		HashCount:                  f.hashCount,
		Count:                      f.Count(),
		EstimatedFalsePositiveRate: f.EstimatedFalsePositiveRate(),
		Segments:                   make([]SegmentStats, len(f.segments)),
	}
	for i, seg := range f.segments {
		st.Segments[i] = segmentStats(i, seg)
	}
	return st
}

// Equal reports whether both filters share a configuration and hold
// bit-identical segments.
func (f *DynamicFilter) Equal(other *DynamicFilter) bool {
	if other == nil ||
		f.expectedElements != other.expectedElements ||
		f.fpRate != other.fpRate ||
		len(f.segments) != len(other.segments) {
		return false
	}
	for i := range f.segments {
		if !f.segments[i].Equal(other.segments[i]) {
			return false
		}
	}
	return true
}
