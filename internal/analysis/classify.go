package analysis

import (
	"math"
	"strconv"
)

// ColumnType tags a column as Numeric, Categorical, or Unknown.
type ColumnType int

const (
	// Unknown marks a column with no non-missing values.
	Unknown ColumnType = iota
	// Numeric marks a column whose every non-missing cell parses as a finite number.
	Numeric
	// Categorical marks a column with at least one non-numeric cell.
	Categorical
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// MarshalText renders the type as its lower-case name.
func (t ColumnType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ColumnInfo is one column's classification plus its cell counts.
type ColumnInfo struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	NonNull int        `json:"non_null"`
	Missing int        `json:"missing"`
}

// Classify returns the tag of every column of ds. A column is Numeric only if
// all of its non-missing cells are numbers; there is no majority rule. Tags
// are computed once when the Dataset is built.
func Classify(ds *Dataset) map[string]ColumnType {
	out := make(map[string]ColumnType, len(ds.columns))
	for i, name := range ds.columns {
		out[name] = ds.types[i]
	}
	return out
}

// ClassifyColumn returns a single column's tag.
func ClassifyColumn(ds *Dataset, name string) (ColumnType, error) {
	return ds.Type(name)
}

// Schema returns the classification in column order with cell counts.
func Schema(ds *Dataset) []ColumnInfo {
	out := make([]ColumnInfo, len(ds.columns))
	for i, name := range ds.columns {
		nn := countValid(ds.cells[i])
		out[i] = ColumnInfo{
			Name:    name,
			Type:    ds.types[i],
			NonNull: nn,
			Missing: ds.rows - nn,
		}
	}
	return out
}

func classifyValues(vals []Value) ColumnType {
	seen := false
	for _, v := range vals {
		if !v.Valid {
			continue
		}
		seen = true
		if _, ok := parseNumber(v.Text); !ok {
			return Categorical
		}
	}
	if !seen {
		return Unknown
	}
	return Numeric
}

// parseNumber accepts finite decimal or scientific notation. "NaN" and "Inf"
// spellings are treated as text.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func countValid(vals []Value) int {
	n := 0
	for _, v := range vals {
		if v.Valid {
			n++
		}
	}
	return n
}

// numericValues returns the parsed non-missing values of a Numeric column.
func numericValues(vals []Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !v.Valid {
			continue
		}
		if f, ok := parseNumber(v.Text); ok {
			out = append(out, f)
		}
	}
	return out
}
