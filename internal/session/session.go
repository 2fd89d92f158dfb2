// Package session holds the currently loaded dataset snapshot and serves
// analysis requests against it, caching results until the snapshot is replaced.
package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tadarshpandey/data-analysis-project/internal/analysis"
)

// State is the lifecycle stage of a Session.
type State int

const (
	// Empty means no dataset has been loaded successfully.
	Empty State = iota
	// Loaded means a dataset is present and classified.
	Loaded
	// Analyzed means at least one result has been computed and cached for the current dataset.
	Analyzed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Analyzed:
		return "analyzed"
	default:
		return "empty"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoadOptions sets how raw bytes are parsed on Load.
func WithLoadOptions(opt analysis.LoadOptions) Option {
	return func(s *Session) { s.loadOpt = opt }
}

// Session owns the active dataset snapshot. Replacing the dataset swaps the
// snapshot pointer atomically, so readers never see a half-updated state.
type Session struct {
	logger  *slog.Logger
	loadOpt analysis.LoadOptions
	current atomic.Pointer[snapshot]
}

// snapshot is one loaded dataset plus every result cached against it.
type snapshot struct {
	id       string
	ds       *analysis.Dataset
	loadedAt time.Time

	mu    sync.Mutex
	stats map[string]statsEntry
	freqs map[string]freqEntry
	corr  *corrEntry
}

type statsEntry struct {
	stats analysis.DescriptiveStats
	err   error
}

type freqEntry struct {
	table analysis.FrequencyTable
	err   error
}

type corrEntry struct {
	matrix *analysis.CorrelationMatrix
	err    error
}

// New returns an Empty session.
func New(opts ...Option) *Session {
	s := &Session{
		logger:  slog.New(slog.DiscardHandler),
		loadOpt: analysis.DefaultLoadOptions(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load parses raw bytes into a new snapshot and makes it current. On failure
// the previous snapshot, if any, stays current.
func (s *Session) Load(raw []byte) (*analysis.Dataset, error) {
	return s.load(raw, s.loadOpt)
}

// LoadFile reads path and loads it, labelling the dataset with the file name.
func (s *Session) LoadFile(path string) (*analysis.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	opt := s.loadOpt
	opt.Name = filepath.Base(path)
	return s.load(raw, opt)
}

func (s *Session) load(raw []byte, opt analysis.LoadOptions) (*analysis.Dataset, error) {
	ds, err := analysis.Load(raw, opt)
	if err != nil {
		s.logger.Warn("dataset load failed", "name", opt.Name, "error", err)
		return nil, err
	}
	snap := &snapshot{
		id:       uuid.NewString(),
		ds:       ds,
		loadedAt: time.Now(),
		stats:    make(map[string]statsEntry),
		freqs:    make(map[string]freqEntry),
	}
	prev := s.current.Swap(snap)
	if prev != nil {
		s.logger.Debug("discarding previous snapshot", "snapshot", prev.id)
	}
	s.logger.Info("dataset loaded", "snapshot", snap.id, "name", ds.Name(), "rows", ds.NumRows(), "columns", ds.NumColumns())
	return ds, nil
}

// State reports the session's lifecycle stage.
func (s *Session) State() State {
	snap := s.current.Load()
	if snap == nil {
		return Empty
	}
	snap.mu.Lock()
	defer snap.mu.Unlock()
	if len(snap.stats) > 0 || len(snap.freqs) > 0 || snap.corr != nil {
		return Analyzed
	}
	return Loaded
}

// SnapshotID identifies the current snapshot; empty when no dataset is loaded.
func (s *Session) SnapshotID() string {
	if snap := s.current.Load(); snap != nil {
		return snap.id
	}
	return ""
}

// LoadedAt returns when the current snapshot was loaded.
func (s *Session) LoadedAt() (time.Time, error) {
	snap, err := s.snapshot()
	if err != nil {
		return time.Time{}, err
	}
	return snap.loadedAt, nil
}

// Dataset returns the current dataset.
func (s *Session) Dataset() (*analysis.Dataset, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ds, nil
}

func (s *Session) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, analysis.ErrNoDataset
	}
	return snap, nil
}

// Classify returns the column types computed at load time.
func (s *Session) Classify() (map[string]analysis.ColumnType, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analysis.Classify(snap.ds), nil
}

// Schema returns column types and cell counts in column order.
func (s *Session) Schema() ([]analysis.ColumnInfo, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analysis.Schema(snap.ds), nil
}
