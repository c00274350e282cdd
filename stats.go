package bloom

// SegmentStats describes one segment at the time Stats was called.
type SegmentStats struct {
	Index                      int     `json:"index"`
	Size                       uint64  `json:"size"`
	HashCount                  uint32  `json:"hash_count"`
	Count                      uint64  `json:"count"`
	SetBits                    uint64  `json:"set_bits"`
	FillRatio                  float64 `json:"fill_ratio"`
	EstimatedFalsePositiveRate float64 `json:"estimated_false_positive_rate"`
}

// Stats is a point-in-time snapshot of a DynamicFilter for reporting.
type Stats struct {
	ExpectedElements           uint64         `json:"expected_elements"`
	TargetFalsePositiveRate    float64        `json:"target_false_positive_rate"`
	SegmentSize                uint64         `json:"segment_size"`
	SegmentCapacity            uint64         `json:"segment_capacity"`
	HashCount                  uint32         `json:"hash_count"`
	Count                      uint64         `json:"count"`
	EstimatedFalsePositiveRate float64        `json:"estimated_false_positive_rate"`
	Segments                   []SegmentStats `json:"segments"`
}

func segmentStats(i int, f *StaticFilter) SegmentStats {
	return SegmentStats{
		Index:                      i,
		Size:                       f.Size(),
		HashCount:                  f.HashCount(),
		Count:                      f.Count(),
		SetBits:                    f.SetBits(),
		FillRatio:                  f.FillRatio(),
		EstimatedFalsePositiveRate: f.EstimatedFalsePositiveRate(),
	}
}
