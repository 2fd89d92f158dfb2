package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultBins matches the dashboard's 20-bin histograms.
const DefaultBins = 20

// HistogramBin counts the values in [Lower, Upper); the last bin also
// includes Upper.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// BoxSummary holds the figures behind a box plot. Whiskers reach the most
// extreme values within 1.5 IQR of the quartiles; the rest are outliers.
type BoxSummary struct {
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// Distribution is the histogram and box summary of one Numeric column.
type Distribution struct {
	Column string         `json:"column"`
	Bins   []HistogramBin `json:"bins"`
	Box    BoxSummary     `json:"box"`
}

// Distribute bins a Numeric column into equal-width bins spanning its range
// and computes its quartiles with linear interpolation.
func Distribute(ds *Dataset, column string, bins int) (Distribution, error) {
	if bins <= 0 {
		return Distribution{}, fmt.Errorf("bins must be positive, got %d", bins)
	}
	i, err := ds.position(column)
	if err != nil {
		return Distribution{}, err
	}
	switch t := ds.types[i]; t {
	case Unknown:
		return Distribution{}, &EmptyColumnError{Column: column}
	case Categorical:
		return Distribution{}, &WrongColumnTypeError{Column: column, Want: Numeric, Got: t}
	}

	xs := numericValues(ds.cells[i])
	sort.Float64s(xs)
	lo, hi := xs[0], xs[len(xs)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	// hi/n - lo/n cannot overflow where hi - lo might
	width := hi/float64(bins) - lo/float64(bins)
	dividers := make([]float64, bins+1)
	for b := 0; b < bins; b++ {
		dividers[b] = lo + float64(b)*width
	}
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	d := Distribution{Column: column, Bins: make([]HistogramBin, bins)}
	for b := range d.Bins {
		upper := hi
		if b+1 < bins {
			upper = dividers[b+1]
		}
		d.Bins[b] = HistogramBin{Lower: dividers[b], Upper: upper, Count: int(counts[b])}
	}

	box := BoxSummary{
		Q1:       quantile(xs, 0.25),
		Median:   quantile(xs, 0.5),
		Q3:       quantile(xs, 0.75),
		Outliers: []float64{},
	}
	iqr := box.Q3 - box.Q1
	lowFence, highFence := box.Q1-1.5*iqr, box.Q3+1.5*iqr
	box.LowerWhisker, box.UpperWhisker = box.Q1, box.Q3
	for _, x := range xs {
		if x < lowFence || x > highFence {
			box.Outliers = append(box.Outliers, x)
			continue
		}
		box.LowerWhisker = math.Min(box.LowerWhisker, x)
		box.UpperWhisker = math.Max(box.UpperWhisker, x)
	}
	d.Box = box
	return d, nil
}

// quantile interpolates linearly between the closest ranks of sorted.
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
