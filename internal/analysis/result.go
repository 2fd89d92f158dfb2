package analysis

// AnalyzeOptions controls what Analyze includes in an AnalysisResult.
type AnalyzeOptions struct {
	// TopK is the number of strongest correlation pairs to keep.
	TopK int
	// HeadRows is the number of leading rows copied into the result.
	HeadRows int
	// FrequencyLimit truncates each frequency table for display; 0 keeps all.
	FrequencyLimit int
	// Bins is the histogram bin count per numeric column; 0 omits distributions.
	Bins int
}

// DefaultAnalyzeOptions mirrors the dashboard defaults: five top pairs, five
// sample rows and 20-bin histograms.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{TopK: DefaultTopK, HeadRows: 5, Bins: DefaultBins}
}

// StatsOutcome is one column's result in a batch describe.
type StatsOutcome struct {
	Column string            `json:"column"`
	Stats  *DescriptiveStats `json:"stats,omitempty"`
	Error  string            `json:"error,omitempty"`
	Err    error             `json:"-"`
}

// FrequencyOutcome is one column's result in a batch frequency request.
type FrequencyOutcome struct {
	Column string          `json:"column"`
	Table  *FrequencyTable `json:"table,omitempty"`
	Error  string          `json:"error,omitempty"`
	Err    error           `json:"-"`
}

// AnalysisResult aggregates every engine's output for one dataset snapshot.
type AnalysisResult struct {
	SnapshotID     string             `json:"snapshot_id,omitempty"`
	Name           string             `json:"name,omitempty"`
	Rows           int                `json:"rows"`
	Schema         []ColumnInfo       `json:"schema"`
	Head           [][]Value          `json:"-"`
	Stats          []StatsOutcome     `json:"stats"`
	Frequencies    []FrequencyOutcome `json:"frequencies"`
	Distributions  []Distribution     `json:"distributions,omitempty"`
	Correlation    *CorrelationMatrix `json:"correlation,omitempty"`
	CorrelationErr string             `json:"correlation_error,omitempty"`
	TopPairs       []CorrelationPair  `json:"top_pairs"`
}

// Failures returns every per-column or per-matrix error message in the result.
func (r *AnalysisResult) Failures() []string {
	var out []string
	for _, s := range r.Stats {
		if s.Err != nil {
			out = append(out, s.Err.Error())
		}
	}
	for _, f := range r.Frequencies {
		if f.Err != nil {
			out = append(out, f.Err.Error())
		}
	}
	if r.CorrelationErr != "" {
		out = append(out, r.CorrelationErr)
	}
	return out
}

// Queries supplies the per-column engines that batch operations assemble.
// A session substitutes cached versions; DirectQueries computes every call.
type Queries struct {
	Describe  func(ds *Dataset, column string) (DescriptiveStats, error)
	Frequency func(ds *Dataset, column string) (FrequencyTable, error)
	Correlate func(ds *Dataset) (*CorrelationMatrix, error)
}

// DirectQueries returns Queries backed by the uncached engines.
func DirectQueries() Queries {
	return Queries{Describe: Describe, Frequency: Frequency, Correlate: Correlate}
}

// DescribeAll describes every non-Categorical column. Empty columns surface
// an *EmptyColumnError in their own outcome without stopping the batch.
func (q Queries) DescribeAll(ds *Dataset) []StatsOutcome {
	var out []StatsOutcome
	for i, name := range ds.columns {
		if ds.types[i] == Categorical {
			continue
		}
		out = append(out, q.describeOutcome(ds, name))
	}
	return out
}

// DescribeColumns describes the named columns, recording per-column failures.
func (q Queries) DescribeColumns(ds *Dataset, columns []string) []StatsOutcome {
	out := make([]StatsOutcome, 0, len(columns))
	for _, name := range columns {
		out = append(out, q.describeOutcome(ds, name))
	}
	return out
}

func (q Queries) describeOutcome(ds *Dataset, column string) StatsOutcome {
	s, err := q.Describe(ds, column)
	if err != nil {
		return StatsOutcome{Column: column, Error: err.Error(), Err: err}
	}
	return StatsOutcome{Column: column, Stats: &s}
}

// FrequencyAll computes a frequency table for every Categorical column.
func (q Queries) FrequencyAll(ds *Dataset) []FrequencyOutcome {
	var out []FrequencyOutcome
	for i, name := range ds.columns {
		if ds.types[i] != Categorical {
			continue
		}
		out = append(out, q.frequencyOutcome(ds, name))
	}
	return out
}

// FrequencyColumns counts the named columns, recording per-column failures.
func (q Queries) FrequencyColumns(ds *Dataset, columns []string) []FrequencyOutcome {
	out := make([]FrequencyOutcome, 0, len(columns))
	for _, name := range columns {
		out = append(out, q.frequencyOutcome(ds, name))
	}
	return out
}

func (q Queries) frequencyOutcome(ds *Dataset, column string) FrequencyOutcome {
	t, err := q.Frequency(ds, column)
	if err != nil {
		return FrequencyOutcome{Column: column, Error: err.Error(), Err: err}
	}
	return FrequencyOutcome{Column: column, Table: &t}
}

// Analyze runs every engine over ds. Per-column and correlation failures are
// recorded in the result rather than returned.
func (q Queries) Analyze(ds *Dataset, opt AnalyzeOptions) *AnalysisResult {
	res := &AnalysisResult{
		Name:        ds.Name(),
		Rows:        ds.NumRows(),
		Schema:      Schema(ds),
		Head:        ds.Head(opt.HeadRows),
		Stats:       q.DescribeAll(ds),
		Frequencies: q.FrequencyAll(ds),
	}
	if opt.FrequencyLimit > 0 {
		for i, f := range res.Frequencies {
			if f.Table != nil {
				t := f.Table.Head(opt.FrequencyLimit)
				res.Frequencies[i].Table = &t
			}
		}
	}
	if opt.Bins > 0 {
		for _, s := range res.Stats {
			if s.Stats == nil {
				continue
			}
			if d, err := Distribute(ds, s.Column, opt.Bins); err == nil {
				res.Distributions = append(res.Distributions, d)
			}
		}
	}
	m, err := q.Correlate(ds)
	if err != nil {
		res.CorrelationErr = err.Error()
		res.TopPairs = []CorrelationPair{}
		return res
	}
	res.Correlation = m
	res.TopPairs = m.Top(opt.TopK)
	return res
}
