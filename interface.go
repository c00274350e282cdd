package bloom

// Filter is the membership surface shared by StaticFilter, DynamicFilter and
// LockedFilter.
type Filter interface {
	Add(v any)
	AddString(s string)
	MayContain(v any) bool
	MayContainString(s string) bool
	EstimatedFalsePositiveRate() float64
}

// Observer receives growing filter events. Implementations must be cheap;
// they run inline with Add and MayContain. Behind a LockedFilter, OnQuery
// may be called from several goroutines at once.
type Observer interface {
	OnAdd(segment int)
	OnQuery(maybePresent bool)
	OnSegmentAllocated(segment int, size uint64, hashCount uint32)
}

// NoopObserver discards every event.
type NoopObserver struct{}

func (NoopObserver) OnAdd(int)                              {}
func (NoopObserver) OnQuery(bool)                           {}
func (NoopObserver) OnSegmentAllocated(int, uint64, uint32) {}

var (
	_ Filter = (*StaticFilter)(nil)
	_ Filter = (*DynamicFilter)(nil)
	_ Filter = (*LockedFilter)(nil)
)
