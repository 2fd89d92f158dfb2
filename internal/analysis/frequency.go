package analysis

import "sort"

// FrequencyEntry is one distinct value and how often it occurs.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable ranks the distinct non-missing values of a Categorical column.
// Entries are ordered by descending count, ties by ascending value.
type FrequencyTable struct {
	Column  string           `json:"column"`
	Entries []FrequencyEntry `json:"entries"`
	Missing int              `json:"missing"`
}

// Total returns the number of non-missing cells counted.
func (t FrequencyTable) Total() int {
	n := 0
	for _, e := range t.Entries {
		n += e.Count
	}
	return n
}

// Clone returns a copy that shares no entries with t.
func (t FrequencyTable) Clone() FrequencyTable {
	out := t
	out.Entries = append([]FrequencyEntry(nil), t.Entries...)
	return out
}

// Head returns a copy of t keeping at most n entries. n <= 0 keeps all.
func (t FrequencyTable) Head(n int) FrequencyTable {
	out := t
	if n > 0 && len(t.Entries) > n {
		out.Entries = append([]FrequencyEntry(nil), t.Entries[:n]...)
	}
	return out
}

// Frequency counts the non-missing values of a Categorical column by exact
// text equality.
func Frequency(ds *Dataset, column string) (FrequencyTable, error) {
	i, err := ds.position(column)
	if err != nil {
		return FrequencyTable{}, err
	}
	vals := ds.cells[i]
	switch t := ds.types[i]; t {
	case Unknown:
		return FrequencyTable{}, &EmptyColumnError{Column: column}
	case Numeric:
		return FrequencyTable{}, &WrongColumnTypeError{Column: column, Want: Categorical, Got: t}
	}

	counts := make(map[string]int)
	missing := 0
	for _, v := range vals {
		if !v.Valid {
			missing++
			continue
		}
		counts[v.Text]++
	}
	entries := make([]FrequencyEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, FrequencyEntry{Value: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count == entries[j].Count {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Count > entries[j].Count
	})
	return FrequencyTable{Column: column, Entries: entries, Missing: missing}, nil
}
