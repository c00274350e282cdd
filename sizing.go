package bloom

import "math"

// MaxSize is the largest supported bit-array length. Positions derive from
// 32-bit hashes, so bits beyond this could never be addressed.
const MaxSize = uint64(math.MaxUint32)

// OptimalSize returns ceil(-n*ln(p) / ln(2)^2), the bit count that holds n
// elements at false positive rate p.
//
// The caller is responsible for n > 0 and 0 < p < 1; CheckParams checks
// both. The result may exceed MaxSize.
func OptimalSize(n uint64, p float64) uint64 {
	m := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	if m >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(m)
}

// OptimalHashCount returns max(1, round((m/n) * ln2)).
func OptimalHashCount(m, n uint64) uint32 {
	if n == 0 {
		return 1
	}
	k := math.Round(float64(m) / float64(n) * math.Ln2)
	if k < 1 {
		return 1
	}
	if k > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(k)
}

// CheckParams validates the growing filter's construction parameters.
func CheckParams(expectedElements uint64, fpRate float64) error {
	if expectedElements == 0 {
		return configErr("expectedElements", expectedElements, ErrBadExpectedElements)
	}
	// written so NaN fails too
	if !(fpRate > 0 && fpRate < 1) {
		return configErr("targetFPRate", fpRate, ErrBadFalsePositiveRate)
	}
	return nil
}

// CheckShape validates a fixed filter's size and hash count.
func CheckShape(size uint64, hashCount uint32) error {
	if size == 0 {
		return configErr("size", size, ErrBadSize)
	}
	if size > MaxSize {
		return configErr("size", size, ErrSizeOverflow)
	}
	if hashCount == 0 {
		return configErr("hashCount", hashCount, ErrBadHashCount)
	}
	return nil
}
