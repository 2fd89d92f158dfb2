package analysis

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Value is a single cell. Valid is false for a Missing cell.
type Value struct {
	Text  string
	Valid bool
}

// Missing is the zero Value.
var Missing = Value{}

// LoadOptions controls how raw tabular bytes become a Dataset.
type LoadOptions struct {
	// Name is a display label for the dataset, typically the source file name.
	Name string
	// Delimiter separates fields. If 0, ',' is used.
	Delimiter rune
	// MissingValues lists extra cell tokens (after trimming) treated as Missing.
	// Empty cells are always Missing.
	MissingValues []string
	// MaxRows rejects inputs with more data rows; 0 means unlimited.
	MaxRows int
}

// DefaultLoadOptions returns comma-separated loading with only empty cells missing.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Delimiter: ','}
}

// Dataset is an immutable rectangular table: unique column names and
// column-major cells. Construct it with Load or FromRecords.
type Dataset struct {
	name    string
	columns []string
	index   map[string]int
	cells   [][]Value // cells[col][row]
	types   []ColumnType
	rows    int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load parses comma-separated bytes whose first record is the header row.
// Any malformed record fails the whole load with a *ParseError.
func Load(raw []byte, opt LoadOptions) (*Dataset, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	r := csv.NewReader(bytes.NewReader(raw))
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 0 // every record must match the header width
	if opt.Delimiter != 0 {
		r.Comma = opt.Delimiter
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("missing header row")}
		}
		return nil, toParseError(err)
	}
	columns := append([]string(nil), header...)

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, toParseError(err)
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			line, _ := r.FieldPos(0)
			return nil, &ParseError{Line: line, Err: fmt.Errorf("more than %d data rows", opt.MaxRows)}
		}
		records = append(records, append([]string(nil), rec...))
	}
	return FromRecords(columns, records, opt)
}

// FromRecords builds a Dataset from a header and row-major string records.
// Cells are trimmed; empty cells and opt.MissingValues become Missing.
func FromRecords(columns []string, records [][]string, opt LoadOptions) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, &ParseError{Err: errors.New("header row has no columns")}
	}
	ds := &Dataset{
		name:    opt.Name,
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]Value, len(columns)),
		types:   make([]ColumnType, len(columns)),
		rows:    len(records),
	}
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if _, dup := ds.index[name]; dup {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("duplicate column name %q", name)}
		}
		ds.columns[i] = name
		ds.index[name] = i
		ds.cells[i] = make([]Value, len(records))
	}

	missing := make(map[string]struct{}, len(opt.MissingValues))
	for _, m := range opt.MissingValues {
		missing[strings.TrimSpace(m)] = struct{}{}
	}
	for row, rec := range records {
		if len(rec) != len(columns) {
			// header is line 1
			return nil, &ParseError{Line: row + 2, Err: fmt.Errorf("expected %d fields, got %d", len(columns), len(rec))}
		}
		for col, raw := range rec {
			v := strings.TrimSpace(raw)
			if v == "" {
				continue
			}
			if _, ok := missing[v]; ok {
				continue
			}
			ds.cells[col][row] = Value{Text: v, Valid: true}
		}
	}
	for i := range ds.cells {
		ds.types[i] = classifyValues(ds.cells[i])
	}
	return ds, nil
}

func toParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.StartLine, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

// Name returns the display label given at load time.
func (d *Dataset) Name() string { return d.name }

// NumRows returns the number of data rows (header excluded).
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// HasColumn reports whether a column with exactly this name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns a copy of the named column's cells.
func (d *Dataset) Column(name string) ([]Value, error) {
	vals, err := d.values(name)
	if err != nil {
		return nil, err
	}
	return append([]Value(nil), vals...), nil
}

// Row returns a copy of row i in column order.
func (d *Dataset) Row(i int) []Value {
	if i < 0 || i >= d.rows {
		return nil
	}
	out := make([]Value, len(d.columns))
	for c := range d.cells {
		out[c] = d.cells[c][i]
	}
	return out
}

// Head returns up to n leading rows.
func (d *Dataset) Head(n int) [][]Value {
	if n > d.rows {
		n = d.rows
	}
	out := make([][]Value, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, d.Row(i))
	}
	return out
}

// Type returns the classification computed when the dataset was built.
func (d *Dataset) Type(name string) (ColumnType, error) {
	i, err := d.position(name)
	if err != nil {
		return Unknown, err
	}
	return d.types[i], nil
}

func (d *Dataset) position(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return -1, &ColumnNotFoundError{Column: name}
	}
	return i, nil
}

// values returns the backing slice; callers must not modify it.
func (d *Dataset) values(name string) ([]Value, error) {
	i, err := d.position(name)
	if err != nil {
		return nil, err
	}
	return d.cells[i], nil
}
