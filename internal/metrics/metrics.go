// Package metrics exports filter activity and occupancy to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	bloom "github.com/naivewong/dynbloom"
)

const namespace = "dynbloom"

// Observer counts adds, queries and segment allocations. It implements
// bloom.Observer and is safe for concurrent use.
type Observer struct {
	adds        prometheus.Counter
	queries     *prometheus.CounterVec
	allocations prometheus.Counter
	segments    prometheus.Gauge
}

var _ bloom.Observer = (*Observer)(nil)

// NewObserver creates the counters and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		adds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adds_total",
			Help:      "Elements added to the filter.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Membership queries by answer.",
		}, []string{"result"}),
		allocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_allocations_total",
			Help:      "Segments allocated, including the first.",
		}),
		segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "segments",
			Help:      "Segments currently in the chain.",
		}),
	}
	for _, c := range []prometheus.Collector{o.adds, o.queries, o.allocations, o.segments} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) OnAdd(int) { o.adds.Inc() }

func (o *Observer) OnQuery(maybePresent bool) {
	if maybePresent {
		o.queries.WithLabelValues("maybe_present").Inc()
	} else {
		o.queries.WithLabelValues("absent").Inc()
	}
}

func (o *Observer) OnSegmentAllocated(segment int, _ uint64, _ uint32) {
	o.allocations.Inc()
	o.segments.Set(float64(segment + 1))
}

// StatsCollector reports per-segment occupancy at scrape time.
type StatsCollector struct {
	stats func() bloom.Stats

	fillRatio  *prometheus.Desc
	segmentFP  *prometheus.Desc
	segmentAdd *prometheus.Desc
	chainFP    *prometheus.Desc
	targetFP   *prometheus.Desc
}

// NewStatsCollector reads stats, typically LockedFilter.Stats, on every
// scrape.
func NewStatsCollector(stats func() bloom.Stats) *StatsCollector {
	seg := []string{"segment"}
	return &StatsCollector{
		stats: stats,
		fillRatio: prometheus.NewDesc(namespace+"_segment_fill_ratio",
			"Fraction of set bits in a segment.", seg, nil),
		segmentFP: prometheus.NewDesc(namespace+"_segment_estimated_false_positive_rate",
			"Estimated false positive rate of a segment.", seg, nil),
		segmentAdd: prometheus.NewDesc(namespace+"_segment_adds",
			"Adds taken by a segment.", seg, nil),
		chainFP: prometheus.NewDesc(namespace+"_estimated_false_positive_rate",
			"Estimated false positive rate across all segments.", nil, nil),
		targetFP: prometheus.NewDesc(namespace+"_target_false_positive_rate",
			"Configured per-segment false positive rate.", nil, nil),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.fillRatio
	ch <- c.segmentFP
	ch <- c.segmentAdd
	ch <- c.chainFP
	ch <- c.targetFP
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.stats()
	for _, seg := range st.Segments {
		idx := strconv.Itoa(seg.Index)
		ch <- prometheus.MustNewConstMetric(c.fillRatio, prometheus.GaugeValue, seg.FillRatio, idx)
		ch <- prometheus.MustNewConstMetric(c.segmentFP, prometheus.GaugeValue, seg.EstimatedFalsePositiveRate, idx)
		ch <- prometheus.MustNewConstMetric(c.segmentAdd, prometheus.GaugeValue, float64(seg.Count), idx)
	}
	ch <- prometheus.MustNewConstMetric(c.chainFP, prometheus.GaugeValue, st.EstimatedFalsePositiveRate)
	ch <- prometheus.MustNewConstMetric(c.targetFP, prometheus.GaugeValue, st.TargetFalsePositiveRate)
}
