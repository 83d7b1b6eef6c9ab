package analysis

import (
	"math"
	"sort"
)

// StatNames lists the descriptive statistics in report row order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Description holds descriptive statistics for one numeric column.
// Values other than Count are NaN when undefined (no data, or std of one value).
type Description struct {
	Count float64
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Values returns the statistics in StatNames order.
func (d Description) Values() []float64 {
	return []float64{d.Count, d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max}
}

// Rounded returns a copy with every statistic rounded to two decimals.
func (d Description) Rounded() Description {
	return Description{
		Count: round2(d.Count),
		Mean:  round2(d.Mean),
		Std:   round2(d.Std),
		Min:   round2(d.Min),
		Q25:   round2(d.Q25),
		Q50:   round2(d.Q50),
		Q75:   round2(d.Q75),
		Max:   round2(d.Max),
	}
}

// Describe computes count, mean, sample standard deviation, min, linearly
// interpolated quartiles and max.
func Describe(vals []float64) Description {
	nan := math.NaN()
	d := Description{Count: float64(len(vals)), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(vals) == 0 {
		return d
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	d.Mean = sum / float64(len(vals))
	if len(vals) > 1 {
		ss := 0.0
		for _, v := range vals {
			dv := v - d.Mean
			ss += dv * dv
		}
		d.Std = math.Sqrt(ss / float64(len(vals)-1))
	}
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Q25 = quantile(sorted, 0.25)
	d.Q50 = quantile(sorted, 0.5)
	d.Q75 = quantile(sorted, 0.75)
	return d
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
