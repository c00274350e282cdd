package bloom

import "sync"

// LockedFilter guards a DynamicFilter with a reader/writer lock. Adds hold
// the write lock across the saturation check and the insert; queries and
// introspection share the read lock.
type LockedFilter struct {
	mu sync.RWMutex
	f  *DynamicFilter
}

// NewLocked wraps f. f must not be used directly afterwards.
func NewLocked(f *DynamicFilter) *LockedFilter {
	return &LockedFilter{f: f}
}

func (l *LockedFilter) Add(v any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.Add(v)
}

func (l *LockedFilter) AddString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.AddString(s)
}

func (l *LockedFilter) MayContain(v any) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.MayContain(v)
}

func (l *LockedFilter) MayContainString(s string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.MayContainString(s)
}

// AddAndLocate adds s and returns the positions it was written to, under a
// single lock so the positions belong to the segment that took the add.
func (l *LockedFilter) AddAndLocate(s string) (segment int, positions []uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.f.AddString(s)
	segment = l.f.SegmentCount() - 1
	return segment, l.f.Segment(segment).Positions(s)
}

func (l *LockedFilter) EstimatedFalsePositiveRate() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.EstimatedFalsePositiveRate()
}

func (l *LockedFilter) SegmentCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.SegmentCount()
}

func (l *LockedFilter) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.Stats()
}

// SegmentBits returns the bit string of segment i, or false if there is no
// such segment.
func (l *LockedFilter) SegmentBits(i int) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= l.f.SegmentCount() {
		return "", false
	}
	return l.f.Segment(i).BitString(), true
}

// Canonical applies the wrapped filter's Canonicalizer.
func (l *LockedFilter) Canonical(v any) string { return l.f.canonical(v) }
