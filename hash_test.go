package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPair(t *testing.T) {
	tests := []struct {
		in     string
		h0, h1 uint32
	}{
		{"", 5381, 2166136261},
		{"a", 177670, 3826002220},
		{"hello", 261238937, 1335831723},
		{"record-0", 4274362145, 2263966393},
		{"héllo", 265982621, 4058363231},
		// astral runes hash as a surrogate pair
		{"😀", 7743522, 3409036472},
	}
	for _, tc := range tests {
		h0, h1 := HashPair(tc.in)
		require.Equal(t, tc.h0, h0, "h0(%q)", tc.in)
		require.Equal(t, tc.h1, h1, "h1(%q)", tc.in)
	}
}

func TestPositions(t *testing.T) {
	tests := []struct {
		in   string
		m    uint64
		k    uint32
		want []uint64
	}{
		{"hello", 1000, 5, []uint64{937, 723, 383, 106, 829}},
		{"hello", 1000, 1, []uint64{937}},
		{"", 1000, 3, []uint64{381, 261, 903}},
		{"a", 97, 4, []uint64{63, 83, 35, 21}},
		{"record-0", 959, 7, []uint64{368, 430, 269, 699, 170, 600, 71}},
		{"héllo", 1000, 3, []uint64{621, 231, 83}},
		{"😀", 1000, 3, []uint64{522, 472, 466}},
	}
	for _, tc := range tests {
		got := Positions(tc.in, tc.m, tc.k)
		require.Equal(t, tc.want, got, "Positions(%q, %d, %d)", tc.in, tc.m, tc.k)
		for _, p := range got {
			require.Less(t, p, tc.m)
		}
	}
}

func TestPositionsDegenerateShape(t *testing.T) {
	require.Empty(t, Positions("x", 0, 3))
	require.Empty(t, Positions("x", 10, 0))
}

func TestPositionsInto(t *testing.T) {
	buf := make([]uint64, 0, 8)
	buf = PositionsInto(buf, "hello", 1000, 3)
	buf = PositionsInto(buf, "a", 97, 2)
	require.Equal(t, []uint64{937, 723, 383, 63, 83}, buf)
}

func BenchmarkPositions(b *testing.B) {
	buf := make([]uint64, 0, 16)
	for i := 0; i < b.N; i++ {
		buf = PositionsInto(buf[:0], "someone@example.com", 95851, 7)
	}
}
