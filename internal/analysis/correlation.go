package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultTopK is the number of strongest pairs reported when no k is given.
const DefaultTopK = 5

// CorrelationMatrix holds a symmetric Pearson correlation matrix across
// numeric columns. Undefined cells are NaN.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// CorrelationPair is one off-diagonal cell with A < B by name.
type CorrelationPair struct {
	A   string  `json:"a"`
	B   string  `json:"b"`
	R   float64 `json:"r"`
	Abs float64 `json:"abs"`
}

// Correlate computes pairwise-complete Pearson correlations among the
// Numeric columns of ds, in column order. Each pair uses only the rows where
// both columns are present.
func Correlate(ds *Dataset) (*CorrelationMatrix, error) {
	var (
		names []string
		cols  [][]Value
	)
	for i, name := range ds.columns {
		if ds.types[i] == Numeric {
			names = append(names, name)
			cols = append(cols, ds.cells[i])
		}
	}
	if len(names) < 2 {
		return nil, &InsufficientColumnsError{Found: len(names)}
	}

	// Parse once; present[c][row] marks non-missing cells.
	n := len(names)
	nums := make([][]float64, n)
	present := make([][]bool, n)
	for c, vals := range cols {
		nums[c] = make([]float64, len(vals))
		present[c] = make([]bool, len(vals))
		for row, v := range vals {
			if !v.Valid {
				continue
			}
			if f, ok := parseNumber(v.Text); ok {
				nums[c][row] = f
				present[c][row] = true
			}
		}
	}

	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		if varies(numericValues(cols[a])) {
			mat[a][a] = 1
		} else {
			mat[a][a] = math.NaN()
		}
		for b := a + 1; b < n; b++ {
			r := pairwise(nums[a], nums[b], present[a], present[b])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrelationMatrix{Columns: names, Values: mat}, nil
}

// pairwise returns Pearson's r over rows where both sides are present, or
// NaN when fewer than two such rows exist or either side is constant.
func pairwise(x, y []float64, px, py []bool) float64 {
	var xs, ys []float64
	for i := range x {
		if px[i] && py[i] {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 || !varies(xs) || !varies(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func varies(vals []float64) bool {
	for _, v := range vals[min(1, len(vals)):] {
		if v != vals[0] {
			return true
		}
	}
	return false
}

// TopCorrelations returns the k strongest pairs of ds by absolute correlation.
func TopCorrelations(ds *Dataset, k int) ([]CorrelationPair, error) {
	m, err := Correlate(ds)
	if err != nil {
		return nil, err
	}
	return m.Top(k), nil
}

// Clone returns a deep copy of m.
func (m *CorrelationMatrix) Clone() *CorrelationMatrix {
	if m == nil {
		return nil
	}
	out := &CorrelationMatrix{
		Columns: append([]string(nil), m.Columns...),
		Values:  make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		out.Values[i] = append([]float64(nil), row...)
	}
	return out
}

// Top ranks the defined upper-triangle cells by descending |r|, ties by
// ascending (A, B), and returns at most k. k <= 0 returns an empty slice.
func (m *CorrelationMatrix) Top(k int) []CorrelationPair {
	if k <= 0 || m == nil {
		return []CorrelationPair{}
	}
	var pairs []CorrelationPair
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			a, b := m.Columns[i], m.Columns[j]
			if b < a {
				a, b = b, a
			}
			pairs = append(pairs, CorrelationPair{A: a, B: b, R: r, Abs: math.Abs(r)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Abs != pairs[j].Abs {
			return pairs[i].Abs > pairs[j].Abs
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > k {
		pairs = pairs[:k]
	}
	if pairs == nil {
		return []CorrelationPair{}
	}
	return pairs
}

// At returns the cell for columns a and b.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// MarshalJSON writes undefined cells as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			v := v
			vals[i][j] = &v
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}
