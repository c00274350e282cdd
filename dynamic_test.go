package bloom

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func record(i int) string { return fmt.Sprintf("record-%d", i) }

func TestNewComputesShape(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)

	require.Equal(t, uint64(100), f.ExpectedElements())
	require.Equal(t, 0.01, f.TargetFalsePositiveRate())
	require.Equal(t, uint64(959), f.SegmentSize())
	require.Equal(t, uint32(7), f.HashCount())
	require.Equal(t, uint64(100), f.SegmentCapacity())
	require.Equal(t, 1, f.SegmentCount())
	require.Equal(t, uint64(959), f.Segment(0).Size())
	require.Equal(t, uint32(7), f.Segment(0).HashCount())
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		n    uint64
		p    float64
		want error
	}{
		{0, 0.01, ErrBadExpectedElements},
		{100, 0, ErrBadFalsePositiveRate},
		{100, 1, ErrBadFalsePositiveRate},
		{100, -1, ErrBadFalsePositiveRate},
		{100, math.NaN(), ErrBadFalsePositiveRate},
		// ~9.6e9 bits, beyond what 32-bit positions can address
		{1_000_000_000, 0.01, ErrSizeOverflow},
	}
	for _, tc := range tests {
		f, err := New(tc.n, tc.p)
		require.Nil(t, f)
		require.ErrorIs(t, err, tc.want, "n=%d p=%v", tc.n, tc.p)
		require.ErrorIs(t, err, ErrConfiguration)
	}
}

func TestDynamicGrowsOnlyAtCapacity(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		f.AddString(record(i))
	}
	require.Equal(t, 1, f.SegmentCount())
	require.Equal(t, uint64(100), f.Segment(0).Count())

	f.AddString(record(100))
	require.Equal(t, 2, f.SegmentCount())
	require.Equal(t, uint64(100), f.Segment(0).Count())
	require.Equal(t, uint64(1), f.Segment(1).Count())

	// the full segment is frozen
	frozen := f.Segment(0).Bytes()
	for i := 101; i < 200; i++ {
		f.AddString(record(i))
	}
	require.Equal(t, frozen, f.Segment(0).Bytes())
	require.Equal(t, 2, f.SegmentCount())
	require.Equal(t, uint64(200), f.Count())
}

func TestDynamicSegmentsShareShape(t *testing.T) {
	f, err := New(50, 0.05)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		f.AddString(record(i))
	}
	require.Equal(t, 20, f.SegmentCount())
	for i := 0; i < f.SegmentCount(); i++ {
		require.Equal(t, f.SegmentSize(), f.Segment(i).Size())
		require.Equal(t, f.HashCount(), f.Segment(i).HashCount())
		require.Equal(t, uint64(50), f.Segment(i).Count())
	}
}

func TestDynamicScenario(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)

	prevSegments := f.SegmentCount()
	for i := 0; i < 1000; i++ {
		f.AddString(record(i))
		require.GreaterOrEqual(t, f.SegmentCount(), prevSegments)
		prevSegments = f.SegmentCount()
	}
	require.Greater(t, f.SegmentCount(), 1)
	require.Equal(t, 10, f.SegmentCount())

	falseNegatives := 0
	for i := 0; i < 1000; i++ {
		if !f.MayContainString(record(i)) {
			falseNegatives++
		}
	}
	require.Zero(t, falseNegatives)

	falsePositives := 0
	for i := 1000; i < 2000; i++ {
		if f.MayContainString(record(i)) {
			falsePositives++
		}
	}
	rate := float64(falsePositives) / 1000
	t.Logf("segments=%d observed fp=%.4f estimated fp=%.4f", f.SegmentCount(), rate, f.EstimatedFalsePositiveRate())

	require.Greater(t, rate, 0.0)
	require.Less(t, rate, 0.3)
}

func TestDynamicNoFalseNegativesAcrossGrowth(t *testing.T) {
	f, err := New(10, 0.1)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		f.Add(i)
		// everything added so far stays visible
		for j := 0; j <= i; j += 37 {
			require.True(t, f.MayContain(j), "lost %d after %d adds", j, i+1)
		}
	}
}

func TestDynamicFalsePositiveOrderOfMagnitude(t *testing.T) {
	const n = 10000
	f, err := New(n, 0.01)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		f.AddString(record(i))
	}
	require.Equal(t, 1, f.SegmentCount())

	fp := 0
	for i := n; i < 2*n; i++ {
		if f.MayContainString(record(i)) {
			fp++
		}
	}
	rate := float64(fp) / n
	assert.Less(t, rate, 3*0.01)
	assert.Greater(t, rate, 0.01/10)
}

func TestDynamicCompoundEstimate(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)
	require.Zero(t, f.EstimatedFalsePositiveRate())

	for i := 0; i < 1000; i++ {
		f.AddString(record(i))
	}
	miss := 1.0
	for i := 0; i < f.SegmentCount(); i++ {
		miss *= 1 - f.Segment(i).EstimatedFalsePositiveRate()
	}
	require.InDelta(t, 1-miss, f.EstimatedFalsePositiveRate(), 1e-12)
	// ten full segments at ~1% each
	require.InDelta(t, 0.0957, f.EstimatedFalsePositiveRate(), 0.001)
}

func TestDynamicDeterminism(t *testing.T) {
	a, err := New(64, 0.02)
	require.NoError(t, err)
	b, err := New(64, 0.02)
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		a.Add(i)
		b.Add(i)
	}
	require.True(t, a.Equal(b))
	for i := 0; i < a.SegmentCount(); i++ {
		require.Equal(t, a.Segment(i).Bytes(), b.Segment(i).Bytes())
	}
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.MayContain(i), b.MayContain(i))
	}

	b.Add("extra")
	require.False(t, a.Equal(b))
}

func TestDynamicStats(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)
	for i := 0; i < 150; i++ {
		f.AddString(record(i))
	}

	st := f.Stats()
	require.Equal(t, uint64(100), st.ExpectedElements)
	require.Equal(t, 0.01, st.TargetFalsePositiveRate)
	require.Equal(t, uint64(959), st.SegmentSize)
	require.Equal(t, uint64(100), st.SegmentCapacity)
	require.Equal(t, uint32(7), st.HashCount)
	require.Equal(t, uint64(150), st.Count)
	require.Len(t, st.Segments, 2)

	require.Equal(t, 0, st.Segments[0].Index)
	require.Equal(t, uint64(100), st.Segments[0].Count)
	require.Equal(t, uint64(50), st.Segments[1].Count)
	for _, seg := range st.Segments {
		require.GreaterOrEqual(t, seg.FillRatio, 0.0)
		require.LessOrEqual(t, seg.FillRatio, 1.0)
		require.Equal(t, uint64(959), seg.Size)
	}
	require.Greater(t, st.Segments[0].FillRatio, st.Segments[1].FillRatio)
	require.Equal(t, f.EstimatedFalsePositiveRate(), st.EstimatedFalsePositiveRate)
}

func TestDynamicPositionsUseNewestSegment(t *testing.T) {
	f, err := New(100, 0.01)
	require.NoError(t, err)
	require.Equal(t, []uint64{368, 430, 269, 699, 170, 600, 71}, f.Positions("record-0"))
}

func TestDynamicCustomCanonicalizer(t *testing.T) {
	lower := func(v any) string { return strings.ToLower(Canonical(v)) }
	f, err := New(100, 0.01, WithCanonicalizer(lower))
	require.NoError(t, err)

	f.Add("Someone@Example.com")
	require.True(t, f.MayContain("someone@example.com"))
	require.True(t, f.MayContainString("someone@example.com"))
	// AddString/MayContainString bypass the canonicalizer
	require.False(t, f.MayContainString("SOMEONE@EXAMPLE.COM"))
}

type recordingObserver struct {
	adds      []int
	hits      int
	misses    int
	allocated []int
}

func (r *recordingObserver) OnAdd(segment int) { r.adds = append(r.adds, segment) }

func (r *recordingObserver) OnQuery(maybePresent bool) {
	if maybePresent {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingObserver) OnSegmentAllocated(segment int, size uint64, hashCount uint32) {
	r.allocated = append(r.allocated, segment)
}

func TestDynamicObserver(t *testing.T) {
	obs := &recordingObserver{}
	f, err := New(2, 0.1, WithObserver(obs))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		f.Add(i)
	}
	require.Equal(t, []int{0, 0, 1, 1, 2}, obs.adds)
	require.Equal(t, []int{0, 1, 2}, obs.allocated)

	require.True(t, f.MayContain(3))
	require.Equal(t, 1, obs.hits)
}

func TestDynamicLogsGrowth(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f, err := New(1, 0.1, WithLogger(zap.New(core)))
	require.NoError(t, err)

	f.AddString("a")
	f.AddString("b")
	f.AddString("c")

	grown := logs.FilterMessage("bloom segment allocated").All()
	require.Len(t, grown, 2)
	require.Equal(t, int64(2), grown[1].ContextMap()["segment"])
	require.Equal(t, uint64(1), grown[1].ContextMap()["capacity"])
}
