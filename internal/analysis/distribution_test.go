package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeHistogramAndBox(t *testing.T) {
	ds := mustLoad(t, "v,w", "7,", "1,", "100,", "3,", ",1", "2,", "9,", "4,", "5,", "6,", "8,")
	d, err := Distribute(ds, "v", 4)
	require.NoError(t, err)
	assert.Equal(t, "v", d.Column)

	require.Len(t, d.Bins, 4)
	counts := make([]int, len(d.Bins))
	total := 0
	for i, b := range d.Bins {
		counts[i] = b.Count
		total += b.Count
	}
	assert.Equal(t, []int{9, 0, 0, 1}, counts)
	assert.Equal(t, 10, total, "missing cells are not binned")
	assert.Equal(t, 1.0, d.Bins[0].Lower)
	assert.Equal(t, 100.0, d.Bins[3].Upper, "maximum lands in the last bin")
	for i := 1; i < len(d.Bins); i++ {
		assert.Equal(t, d.Bins[i-1].Upper, d.Bins[i].Lower)
	}

	assert.InDelta(t, 3.25, d.Box.Q1, 1e-9)
	assert.InDelta(t, 5.5, d.Box.Median, 1e-9)
	assert.InDelta(t, 7.75, d.Box.Q3, 1e-9)
	assert.Equal(t, 1.0, d.Box.LowerWhisker)
	assert.Equal(t, 9.0, d.Box.UpperWhisker)
	assert.Equal(t, []float64{100}, d.Box.Outliers)
}

func TestDistributeConstantColumn(t *testing.T) {
	ds := mustLoad(t, "c", "5", "5", "5")
	d, err := Distribute(ds, "c", DefaultBins)
	require.NoError(t, err)
	require.Len(t, d.Bins, DefaultBins)
	total := 0
	for _, b := range d.Bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 4.5, d.Bins[0].Lower)
	assert.Equal(t, 5.5, d.Bins[DefaultBins-1].Upper)
	assert.Equal(t, BoxSummary{Q1: 5, Median: 5, Q3: 5, LowerWhisker: 5, UpperWhisker: 5, Outliers: []float64{}}, d.Box)
}

func TestDistributeErrors(t *testing.T) {
	ds := mustLoad(t, "n,c,e", "1,a,", "2,b,")

	_, err := Distribute(ds, "n", 0)
	assert.Error(t, err)

	var wrong *WrongColumnTypeError
	_, err = Distribute(ds, "c", 5)
	assert.ErrorAs(t, err, &wrong)

	var empty *EmptyColumnError
	_, err = Distribute(ds, "e", 5)
	assert.ErrorAs(t, err, &empty)

	var nf *ColumnNotFoundError
	_, err = Distribute(ds, "zz", 5)
	assert.ErrorAs(t, err, &nf)
}

func TestAnalyzeDistributions(t *testing.T) {
	ds := mustLoad(t, "x,y,label", "1,2,a", "2,4,b", "3,7,c")

	res := DirectQueries().Analyze(ds, DefaultAnalyzeOptions())
	require.Len(t, res.Distributions, 2)
	assert.Equal(t, "x", res.Distributions[0].Column)
	assert.Len(t, res.Distributions[0].Bins, DefaultBins)

	opt := DefaultAnalyzeOptions()
	opt.Bins = 0
	assert.Empty(t, DirectQueries().Analyze(ds, opt).Distributions)
}
