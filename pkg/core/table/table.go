// Package table provides the tabular value model shared by every stage of the
// statement pipeline: a time-indexed table of named line items where a missing
// value is an explicit nil, never a missing key.
package table

import (
	"sort"
	"time"
)

// Row holds one fiscal period: the period-end date, an optional company tag
// (set on multi-company tables), and a mapping from line-item name to value.
// A nil value means the source did not report that line item.
type Row struct {
	End     time.Time
	Company string
	Values  map[string]*float64
}

// Table is an ordered collection of Rows sharing a fixed column set.
// Fields defines both the column set and the column order.
type Table struct {
	Fields []string
	Rows   []Row
}

// New creates an empty table with the given column set.
func New(fields ...string) *Table {
	return &Table{Fields: append([]string(nil), fields...)}
}

// Append adds a period row. Values are copied onto the table's column set:
// declared fields absent from values become nil, undeclared keys are dropped.
func (t *Table) Append(end time.Time, values map[string]*float64) {
	t.AppendRow(Row{End: end, Values: values})
}

// AppendRow adds a row, reindexing its values onto the table's column set.
func (t *Table) AppendRow(r Row) {
	vals := make(map[string]*float64, len(t.Fields))
	for _, f := range t.Fields {
		vals[f] = r.Values[f]
	}
	t.Rows = append(t.Rows, Row{End: r.End, Company: r.Company, Values: vals})
}

// Len returns the number of period rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Has reports whether the table declares the given column.
func (t *Table) Has(field string) bool {
	if t == nil {
		return false
	}
	for _, f := range t.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// FirstAvailable returns the first candidate that exists in the table's
// column set. Used where a provider's naming for a concept varies by ticker.
func (t *Table) FirstAvailable(candidates []string) (string, bool) {
	for _, c := range candidates {
		if t.Has(c) {
			return c, true
		}
	}
	return "", false
}

// Reindex returns a new table with exactly the given columns, in that order.
// Columns absent from the source are present and entirely nil; source columns
// not in fields are dropped. Row order is preserved.
func (t *Table) Reindex(fields []string) *Table {
	out := New(fields...)
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		out.AppendRow(r)
	}
	return out
}

// Rename returns a copy of the table with column from renamed to to.
// If from does not exist the table is returned unchanged.
func (t *Table) Rename(from, to string) *Table {
	if t == nil || !t.Has(from) {
		return t
	}
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		if f == from {
			fields[i] = to
		} else {
			fields[i] = f
		}
	}
	out := New(fields...)
	for _, r := range t.Rows {
		vals := make(map[string]*float64, len(r.Values))
		for k, v := range r.Values {
			if k == from {
				vals[to] = v
			} else {
				vals[k] = v
			}
		}
		out.Rows = append(out.Rows, Row{End: r.End, Company: r.Company, Values: vals})
	}
	return out
}

// SortByEnd returns a copy sorted ascending by period-end date. The sort is
// stable so same-date rows keep their relative (e.g. per-company) order.
// Rows are deep-copied so later column additions never touch the source.
func (t *Table) SortByEnd() *Table {
	if t == nil {
		return nil
	}
	out := New(t.Fields...)
	for _, r := range t.Rows {
		out.AppendRow(r)
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].End.Before(out.Rows[j].End)
	})
	return out
}

// LastN returns the trailing n rows in date-ascending order.
func (t *Table) LastN(n int) *Table {
	sorted := t.SortByEnd()
	if sorted == nil || len(sorted.Rows) <= n {
		return sorted
	}
	sorted.Rows = sorted.Rows[len(sorted.Rows)-n:]
	return sorted
}

// Latest returns the most recent row by period-end date.
func (t *Table) Latest() (Row, bool) {
	if t.Empty() {
		return Row{}, false
	}
	latest := t.Rows[0]
	for _, r := range t.Rows[1:] {
		if !r.End.Before(latest.End) {
			latest = r
		}
	}
	return latest, true
}

// Column returns the named column as a slice aligned with Rows.
func (t *Table) Column(field string) []*float64 {
	if t == nil {
		return nil
	}
	col := make([]*float64, len(t.Rows))
	for i, r := range t.Rows {
		col[i] = r.Values[field]
	}
	return col
}

// Value returns the cell at row i for the named column.
func (t *Table) Value(i int, field string) *float64 {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i].Values[field]
}

// Tagged returns a copy with every row's Company set to the given ticker.
func (t *Table) Tagged(company string) *Table {
	if t == nil {
		return nil
	}
	out := &Table{Fields: append([]string(nil), t.Fields...)}
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, Row{End: r.End, Company: company, Values: r.Values})
	}
	return out
}

// AddColumn appends a column to the table. Values beyond len(vals) are nil.
func (t *Table) AddColumn(field string, vals []*float64) {
	t.Fields = append(t.Fields, field)
	for i := range t.Rows {
		var v *float64
		if i < len(vals) {
			v = vals[i]
		}
		t.Rows[i].Values[field] = v
	}
}

// Tagged reports whether any row carries a company tag.
func (t *Table) tagged() bool {
	if t == nil {
		return false
	}
	for _, r := range t.Rows {
		if r.Company != "" {
			return true
		}
	}
	return false
}

// Concat merges tables into one. The column set is taken from the first
// non-nil table; rows are appended in argument order, reindexed onto it.
func Concat(tables ...*Table) *Table {
	var out *Table
	for _, t := range tables {
		if t == nil {
			continue
		}
		if out == nil {
			out = New(t.Fields...)
		}
		for _, r := range t.Rows {
			out.AppendRow(r)
		}
	}
	return out
}
