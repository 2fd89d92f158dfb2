package session

import (
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

// Describe returns summary statistics for a numeric column, cached per snapshot.
func (s *Session) Describe(column string) (analysis.DescriptiveStats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return analysis.DescriptiveStats{}, err
	}
	return s.describe(snap, column)
}

func (s *Session) describe(snap *snapshot, column string) (analysis.DescriptiveStats, error) {
	snap.mu.Lock()
	e, ok := snap.stats[column]
	snap.mu.Unlock()
	if ok {
		s.logger.Debug("stats cache hit", "snapshot", snap.id, "column", column)
		return e.stats.Clone(), e.err
	}

	st, err := analysis.Describe(snap.ds, column)
	snap.mu.Lock()
	if prev, ok := snap.stats[column]; ok {
		st, err = prev.stats, prev.err
	} else {
		snap.stats[column] = statsEntry{stats: st, err: err}
	}
	snap.mu.Unlock()
	if err != nil {
		s.logger.Debug("describe failed", "snapshot", snap.id, "column", column, "error", err)
	}
	return st.Clone(), err
}

// Frequency returns the value-count table for a categorical column, cached per snapshot.
func (s *Session) Frequency(column string) (analysis.FrequencyTable, error) {
	snap, err := s.snapshot()
	if err != nil {
		return analysis.FrequencyTable{}, err
	}
	return s.frequency(snap, column)
}

func (s *Session) frequency(snap *snapshot, column string) (analysis.FrequencyTable, error) {
	snap.mu.Lock()
	e, ok := snap.freqs[column]
	snap.mu.Unlock()
	if ok {
		s.logger.Debug("frequency cache hit", "snapshot", snap.id, "column", column)
		return e.table.Clone(), e.err
	}

	t, err := analysis.Frequency(snap.ds, column)
	snap.mu.Lock()
	if prev, ok := snap.freqs[column]; ok {
		t, err = prev.table, prev.err
	} else {
		snap.freqs[column] = freqEntry{table: t, err: err}
	}
	snap.mu.Unlock()
	return t.Clone(), err
}

// CorrelationMatrix returns the pairwise correlation matrix, cached per snapshot.
func (s *Session) CorrelationMatrix() (*analysis.CorrelationMatrix, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.correlation(snap)
}

func (s *Session) correlation(snap *snapshot) (*analysis.CorrelationMatrix, error) {
	snap.mu.Lock()
	e := snap.corr
	snap.mu.Unlock()
	if e != nil {
		return e.matrix.Clone(), e.err
	}

	m, err := analysis.Correlate(snap.ds)
	snap.mu.Lock()
	if snap.corr == nil {
		snap.corr = &corrEntry{matrix: m, err: err}
	}
	e = snap.corr
	snap.mu.Unlock()
	if e.err == nil {
		s.logger.Debug("correlation matrix computed", "snapshot", snap.id, "columns", len(e.matrix.Columns))
	}
	return e.matrix.Clone(), e.err
}

// TopCorrelations returns at most k strongest pairs from the cached matrix.
func (s *Session) TopCorrelations(k int) ([]analysis.CorrelationPair, error) {
	m, err := s.CorrelationMatrix()
	if err != nil {
		return nil, err
	}
	return m.Top(k), nil
}

// Distribution bins a numeric column and summarizes its quartiles.
func (s *Session) Distribution(column string, bins int) (analysis.Distribution, error) {
	snap, err := s.snapshot()
	if err != nil {
		return analysis.Distribution{}, err
	}
	return analysis.Distribute(snap.ds, column, bins)
}

// queries routes batch operations through the snapshot's caches.
func (s *Session) queries(snap *snapshot) analysis.Queries {
	return analysis.Queries{
		Describe: func(_ *analysis.Dataset, column string) (analysis.DescriptiveStats, error) {
			return s.describe(snap, column)
		},
		Frequency: func(_ *analysis.Dataset, column string) (analysis.FrequencyTable, error) {
			return s.frequency(snap, column)
		},
		Correlate: func(*analysis.Dataset) (*analysis.CorrelationMatrix, error) {
			return s.correlation(snap)
		},
	}
}

// DescribeAll describes every non-categorical column, recording per-column
// failures in their outcomes. Only NoDatasetError aborts the call.
func (s *Session) DescribeAll() ([]analysis.StatsOutcome, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.queries(snap).DescribeAll(snap.ds), nil
}

// DescribeColumns describes the named columns, recording per-column failures.
func (s *Session) DescribeColumns(columns []string) ([]analysis.StatsOutcome, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.queries(snap).DescribeColumns(snap.ds, columns), nil
}

// FrequencyAll computes value counts for every categorical column.
func (s *Session) FrequencyAll() ([]analysis.FrequencyOutcome, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.queries(snap).FrequencyAll(snap.ds), nil
}

// FrequencyColumns computes value counts for the named columns, recording per-column failures.
func (s *Session) FrequencyColumns(columns []string) ([]analysis.FrequencyOutcome, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.queries(snap).FrequencyColumns(snap.ds, columns), nil
}

// Analyze assembles every engine's output for one snapshot. Per-column and
// correlation failures are recorded in the result.
func (s *Session) Analyze(opt analysis.AnalyzeOptions) (*analysis.AnalysisResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	res := s.queries(snap).Analyze(snap.ds, opt)
	res.SnapshotID = snap.id
	s.logger.Info("analysis complete", "snapshot", snap.id, "failures", len(res.Failures()))
	return res, nil
}
