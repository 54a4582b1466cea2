// Package features turns an OHLCV series into leakage-free feature tables.
package features

import (
	"fmt"
	"time"

	"StockSentinel/internal/calculator"
	"StockSentinel/internal/model"
)

// Base column names carried into every table.
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// BaseColumns are the raw OHLCV columns.
var BaseColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Table is an immutable set of named columns over the rows that survived the
// completeness filter. Index maps each row back to its position in the
// source series.
type Table struct {
	Dates   []time.Time
	Index   []int
	columns []string
	data    map[string][]float64
}

// Len returns the number of complete rows.
func (t *Table) Len() int { return len(t.Index) }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns a copy of the named column, or nil if absent.
func (t *Table) Column(name string) []float64 {
	col, ok := t.data[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out
}

// Value returns one cell.
func (t *Table) Value(row int, name string) float64 {
	return t.data[name][row]
}

// Row returns the values of cols at row.
func (t *Table) Row(row int, cols []string) []float64 {
	out := make([]float64, len(cols))
	for j, c := range cols {
		out[j] = t.data[c][row]
	}
	return out
}

// Matrix returns the rows×cols feature matrix for cols.
func (t *Table) Matrix(cols []string) ([][]float64, error) {
	for _, c := range cols {
		if !t.Has(c) {
			return nil, fmt.Errorf("unknown feature column %q", c)
		}
	}
	out := make([][]float64, t.Len())
	for i := range out {
		out[i] = t.Row(i, cols)
	}
	return out, nil
}

// FeatureColumns returns every column except those listed in exclude.
func (t *Table) FeatureColumns(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out
}

// Builder accumulates derived columns over a read-only base series. Columns
// are append-only: a name can be added once and is never overwritten.
type Builder struct {
	dates []time.Time
	names []string
	cols  map[string][]float64
	err   error
}

// NewBuilder validates chronological order and seeds the OHLCV base columns.
func NewBuilder(series *model.Series) (*Builder, error) {
	if series == nil {
		return nil, fmt.Errorf("nil series")
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		dates: series.Dates(),
		cols:  make(map[string][]float64),
	}
	b.Add(ColOpen, series.Opens())
	b.Add(ColHigh, series.Highs())
	b.Add(ColLow, series.Lows())
	b.Add(ColClose, series.Closes())
	b.Add(ColVolume, series.Volumes())
	return b, nil
}

// Add appends a derived column. The first error is kept and reported by Build.
func (b *Builder) Add(name string, values []float64) {
	if b.err != nil {
		return
	}
	if _, dup := b.cols[name]; dup {
		b.err = fmt.Errorf("column %q already defined", name)
		return
	}
	if len(values) != len(b.dates) {
		b.err = fmt.Errorf("column %q has %d rows, want %d", name, len(values), len(b.dates))
		return
	}
	b.names = append(b.names, name)
	b.cols[name] = values
}

// Constant appends a column holding v on every row.
func (b *Builder) Constant(name string, v float64) {
	values := make([]float64, len(b.dates))
	for i := range values {
		values[i] = v
	}
	b.Add(name, values)
}

// Column returns a previously added column for deriving further features.
func (b *Builder) Column(name string) []float64 {
	return b.cols[name]
}

// Build drops every row holding an undefined value and returns the table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	keep := make([]int, 0, len(b.dates))
	for i := range b.dates {
		if b.complete(i) {
			keep = append(keep, i)
		}
	}

	t := &Table{
		Dates:   make([]time.Time, len(keep)),
		Index:   keep,
		columns: append([]string(nil), b.names...),
		data:    make(map[string][]float64, len(b.names)),
	}
	for j, i := range keep {
		t.Dates[j] = b.dates[i]
	}
	for _, name := range b.names {
		src := b.cols[name]
		dst := make([]float64, len(keep))
		for j, i := range keep {
			dst[j] = src[i]
		}
		t.data[name] = dst
	}
	return t, nil
}

func (b *Builder) complete(row int) bool {
	for _, name := range b.names {
		if !calculator.IsDefined(b.cols[name][row]) {
			return false
		}
	}
	return true
}
