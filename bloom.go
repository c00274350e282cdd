package bloom

import (
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// StaticFilter is a bloom filter over a fixed number of bits with a fixed
// hash count. Bits are only ever set, never cleared.
//
// A StaticFilter is not safe for concurrent use when one of the callers
// adds.
type StaticFilter struct {
	size      uint64
	hashCount uint32
	bits      *bitset.BitSet
	count     uint64
}

// NewStaticFilter allocates an empty filter of size bits probed hashCount
// times per element.
func NewStaticFilter(size uint64, hashCount uint32) (*StaticFilter, error) {
	if err := CheckShape(size, hashCount); err != nil {
		return nil, err
	}
	return &StaticFilter{
		size:      size,
		hashCount: hashCount,
		bits:      bitset.New(uint(size)),
	}, nil
}

// Add inserts the Canonical form of v.
func (f *StaticFilter) Add(v any) { f.AddString(Canonical(v)) }

// AddString inserts s. Count grows on every call, including repeats.
func (f *StaticFilter) AddString(s string) {
	f.addHashes(HashPair(s))
}

// TestAndAddString reports whether s may already have been present, then
// adds it.
func (f *StaticFilter) TestAndAddString(s string) bool {
	h0, h1 := HashPair(s)
	present := f.matchHashes(h0, h1)
	f.addHashes(h0, h1)
	return present
}

// MayContain reports whether the Canonical form of v may have been added.
func (f *StaticFilter) MayContain(v any) bool { return f.MayContainString(Canonical(v)) }

// MayContainString returns false only if s was definitely never added.
func (f *StaticFilter) MayContainString(s string) bool {
	return f.matchHashes(HashPair(s))
}

func (f *StaticFilter) addHashes(h0, h1 uint32) {
	p0, p1 := uint64(h0)%f.size, uint64(h1)%f.size
	for i := uint64(0); i < uint64(f.hashCount); i++ {
		f.bits.Set(uint(probe(p0, p1, i, f.size)))
	}
	f.count++
}

func (f *StaticFilter) matchHashes(h0, h1 uint32) bool {
	p0, p1 := uint64(h0)%f.size, uint64(h1)%f.size
	for i := uint64(0); i < uint64(f.hashCount); i++ {
		if !f.bits.Test(uint(probe(p0, p1, i, f.size))) {
			return false
		}
	}
	return true
}

// Positions returns the bit positions s maps to in this filter.
func (f *StaticFilter) Positions(s string) []uint64 {
	return Positions(s, f.size, f.hashCount)
}

// EstimatedFalsePositiveRate returns (1 - e^(-k*n/m))^k for the current
// add count n. It is an asymptotic estimate and loose for small n.
func (f *StaticFilter) EstimatedFalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}
	k := float64(f.hashCount)
	return math.Pow(1-math.Exp(-k*float64(f.count)/float64(f.size)), k)
}

// FillRatio returns the fraction of set bits.
func (f *StaticFilter) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.size)
}

func (f *StaticFilter) Size() uint64      { return f.size }
func (f *StaticFilter) HashCount() uint32 { return f.hashCount }
func (f *StaticFilter) Count() uint64     { return f.count }
func (f *StaticFilter) SetBits() uint64   { return uint64(f.bits.Count()) }

// Bytes returns a copy of the bit array packed into ceil(m/8) bytes, bit i
// at byte i/8 under mask 1<<(i%8).
func (f *StaticFilter) Bytes() []byte {
	out := make([]byte, (f.size+7)/8)
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		out[i/8] |= 1 << (i % 8)
	}
	return out
}

// BitString renders the bit array as '0' and '1' characters, bit 0 first.
func (f *StaticFilter) BitString() string {
	var sb strings.Builder
	sb.Grow(int(f.size))
	for i := uint64(0); i < f.size; i++ {
		if f.bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Equal reports whether both filters have the same shape, add count and
// bits.
func (f *StaticFilter) Equal(other *StaticFilter) bool {
	if other == nil {
		return false
	}
	return f.size == other.size &&
		f.hashCount == other.hashCount &&
		f.count == other.count &&
		f.bits.Equal(other.bits)
}
