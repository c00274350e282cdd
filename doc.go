/*
Package bloom implements a bloom filter that grows with its input.

# Segments

A StaticFilter is a plain bloom filter: m bits, k positions per element.
A DynamicFilter chains StaticFilters ("segments"). It sizes one segment for
the expected element count n and target false positive rate p:

	m = ceil(-n * ln(p) / ln(2)^2)
	k = max(1, round(m/n * ln(2)))

and appends another segment of the same shape each time the newest one has
taken n adds. Earlier segments are never written again.

Queries OR across every segment, so an added element is always reported as
possibly present. The price is that false positives compound:

	p_chain = 1 - prod_i(1 - p_i)

so a chain of s full segments answers with roughly s*p false positives.
Size n generously when the final count is roughly known.

# Hashing

Positions are derived from two 32-bit hashes of the element's canonical
string, computed over its UTF-16 code units with wrapping arithmetic:

	h0 = 5381;       h0 = h0*33 + c
	h1 = 2166136261; h1 ^= c; h1 += h1<<1 + h1<<4 + h1<<7 + h1<<8 + h1<<24

	p_0 = h0 mod m, p_1 = h1 mod m, p_i = (p_0 + i*p_1) mod m

The derivation is fixed so that two implementations fed the same values
produce identical bit arrays.

# Canonical strings

Values are turned into strings by a Canonicalizer before hashing. The
default, Canonical, makes 1, 1.0 and "1" the same element. Supply another
with WithCanonicalizer when that is not wanted.

# Concurrency

StaticFilter and DynamicFilter are single-writer structures. Wrap a
DynamicFilter in a LockedFilter to share it between goroutines.
*/
package bloom
