package plotting

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// BoxStats summarizes one group of values as drawn in a box plot.
type BoxStats struct {
	Q1, Median, Q3 float64
	// LowerWhisker and UpperWhisker are the most extreme values within
	// 1.5 IQR of the box.
	LowerWhisker, UpperWhisker float64
	Outliers                   []float64
}

// ComputeBoxStats returns the box plot statistics of values. NaN values are
// ignored; ok is false when nothing is left.
func ComputeBoxStats(values []float64) (BoxStats, bool) {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return BoxStats{}, false
	}
	sort.Float64s(data)

	median, _ := stats.Median(data)
	bs := BoxStats{Q1: median, Median: median, Q3: median}
	if len(data) > 1 {
		q, err := stats.Quartile(data)
		if err == nil {
			bs.Q1, bs.Q3 = q.Q1, q.Q3
		}
	}

	iqr := bs.Q3 - bs.Q1
	lo, hi := bs.Q1-1.5*iqr, bs.Q3+1.5*iqr
	bs.LowerWhisker, bs.UpperWhisker = bs.Q1, bs.Q3
	for _, v := range data {
		if v < lo || v > hi {
			bs.Outliers = append(bs.Outliers, v)
			continue
		}
		bs.LowerWhisker = math.Min(bs.LowerWhisker, v)
		bs.UpperWhisker = math.Max(bs.UpperWhisker, v)
	}
	return bs, true
}

// Extent returns the smallest and largest value drawn, outliers included.
func (b BoxStats) Extent() (float64, float64) {
	lo, hi := b.LowerWhisker, b.UpperWhisker
	for _, o := range b.Outliers {
		lo = math.Min(lo, o)
		hi = math.Max(hi, o)
	}
	return lo, hi
}
