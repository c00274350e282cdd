package bloom

import "unicode/utf16"

const (
	djbSeed   uint32 = 5381
	djbFactor uint32 = 33
	fnvSeed   uint32 = 2166136261
)

// HashPair returns the two base hashes of s. Both run over the UTF-16 code
// units of s with uint32 wraparound. Invalid UTF-8 bytes count as U+FFFD.
func HashPair(s string) (h0, h1 uint32) {
	h0, h1 = djbSeed, fnvSeed
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h0, h1 = mix(h0, h1, uint32(hi))
			h0, h1 = mix(h0, h1, uint32(lo))
			continue
		}
		h0, h1 = mix(h0, h1, uint32(r))
	}
	return h0, h1
}

func mix(h0, h1, c uint32) (uint32, uint32) {
	h0 = h0*djbFactor + c

	h1 ^= c
	h1 += (h1 << 1) + (h1 << 4) + (h1 << 7) + (h1 << 8) + (h1 << 24)
	return h0, h1
}

// Positions derives k bit positions in [0, m) for s.
//
// The first two positions are h0 mod m and h1 mod m; the rest follow the
// double hashing combination (p0 + i*p1) mod m. k == 1 yields only p0.
func Positions(s string, m uint64, k uint32) []uint64 {
	return PositionsInto(make([]uint64, 0, k), s, m, k)
}

// PositionsInto appends the positions of s to dst and returns the extended
// slice.
func PositionsInto(dst []uint64, s string, m uint64, k uint32) []uint64 {
	if m == 0 || k == 0 {
		return dst
	}
	h0, h1 := HashPair(s)
	p0 := uint64(h0) % m
	dst = append(dst, p0)
	p1 := uint64(h1) % m
	for i := uint64(1); i < uint64(k); i++ {
		dst = append(dst, probe(p0, p1, i, m))
	}
	return dst
}

// probe returns the i-th position given the two base positions.
func probe(p0, p1, i, m uint64) uint64 {
	switch i {
	case 0:
		return p0
	case 1:
		return p1
	}
	// p0, p1 and i are all below 2^32, so this cannot wrap
	return (p0 + i*p1) % m
}
