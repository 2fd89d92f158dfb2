package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DescriptiveStats summarizes the non-missing values of a Numeric column.
type DescriptiveStats struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	// SampleStdDev uses Bessel's correction; nil when Count < 2.
	SampleStdDev *float64 `json:"sample_std_dev"`
	Min          float64  `json:"min"`
	Max          float64  `json:"max"`
}

// Clone returns a copy that shares no pointers with s.
func (s DescriptiveStats) Clone() DescriptiveStats {
	if s.SampleStdDev != nil {
		sd := *s.SampleStdDev
		s.SampleStdDev = &sd
	}
	return s
}

// MarshalJSON writes non-finite values as null.
func (s DescriptiveStats) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	var sd *float64
	if s.SampleStdDev != nil {
		sd = finite(*s.SampleStdDev)
	}
	return json.Marshal(struct {
		Column       string   `json:"column"`
		Count        int      `json:"count"`
		Missing      int      `json:"missing"`
		Mean         *float64 `json:"mean"`
		Median       *float64 `json:"median"`
		SampleStdDev *float64 `json:"sample_std_dev"`
		Min          *float64 `json:"min"`
		Max          *float64 `json:"max"`
	}{s.Column, s.Count, s.Missing, finite(s.Mean), finite(s.Median), sd, finite(s.Min), finite(s.Max)})
}

// Describe computes summary statistics for a Numeric column over its
// non-missing cells. It fails with *EmptyColumnError when every cell is missing.
func Describe(ds *Dataset, column string) (DescriptiveStats, error) {
	i, err := ds.position(column)
	if err != nil {
		return DescriptiveStats{}, err
	}
	vals := ds.cells[i]
	switch t := ds.types[i]; t {
	case Unknown:
		return DescriptiveStats{}, &EmptyColumnError{Column: column}
	case Categorical:
		return DescriptiveStats{}, &WrongColumnTypeError{Column: column, Want: Numeric, Got: t}
	}

	xs := numericValues(vals)
	out := DescriptiveStats{
		Column:  column,
		Count:   len(xs),
		Missing: len(vals) - len(xs),
	}
	if out.Min, err = stats.Min(xs); err != nil {
		return DescriptiveStats{}, fmt.Errorf("min of %q: %w", column, err)
	}
	if out.Max, err = stats.Max(xs); err != nil {
		return DescriptiveStats{}, fmt.Errorf("max of %q: %w", column, err)
	}

	// Scale by a power of two so every value lies in (-1, 1); the scaling is
	// exact and keeps sums and squares away from the float64 limit.
	exp := 0
	if m := math.Max(math.Abs(out.Min), math.Abs(out.Max)); m > 0 {
		_, exp = math.Frexp(m)
	}
	scaled := make(stats.Float64Data, len(xs))
	var (
		n        int
		mean, m2 float64
	)
	for j, x := range xs {
		x = math.Ldexp(x, -exp)
		scaled[j] = x
		// Welford update
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	out.Mean = math.Ldexp(mean, exp)

	med, err := stats.Median(scaled)
	if err != nil {
		return DescriptiveStats{}, fmt.Errorf("median of %q: %w", column, err)
	}
	out.Median = math.Ldexp(med, exp)

	if n >= 2 {
		sd := math.Ldexp(math.Sqrt(m2/float64(n-1)), exp)
		if math.IsInf(sd, 0) || math.IsNaN(sd) {
			return DescriptiveStats{}, &NonFiniteError{Column: column, Stat: "standard deviation"}
		}
		out.SampleStdDev = &sd
	}
	return out, nil
}
