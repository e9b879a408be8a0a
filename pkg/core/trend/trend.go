// Package trend computes year-over-year changes, cross-sectional relative
// differences, and company rankings over ratio tables.
package trend

import (
	"sort"

	"finhealth/pkg/core/table"
)

// Column names added by this package.
const (
	ComparisonRatioField    = "Comparison Ratio"
	RelativeDifferenceField = "Relative Difference"
)

// YoYSuffix is appended to a field name to form its change column.
const YoYSuffix = " YoY Change"

// YoYChange computes the period-over-period percentage change for a series
// already sorted ascending by period. The first element is always nil, as is
// any element whose prior value is nil or zero. Values are rounded to two
// decimal places.
func YoYChange(series []*float64) []*float64 {
	out := make([]*float64, len(series))
	for i := 1; i < len(series); i++ {
		cur, prev := series[i], series[i-1]
		if cur == nil || prev == nil || *prev == 0 {
			continue
		}
		out[i] = table.Round2(table.Float((*cur - *prev) / *prev * 100))
	}
	return out
}

// AddYoY returns a copy of the table with a "<field> YoY Change" column for
// each given field. Rows are sorted ascending by period; on multi-company
// tables the change is computed within each company's own series.
func AddYoY(t *table.Table, fields ...string) *table.Table {
	out := t.SortByEnd()
	if out == nil {
		return nil
	}
	for _, field := range fields {
		col := make([]*float64, out.Len())
		for _, idx := range rowsByCompany(out) {
			series := make([]*float64, len(idx))
			for i, ri := range idx {
				series[i] = out.Rows[ri].Values[field]
			}
			for i, v := range YoYChange(series) {
				col[idx[i]] = v
			}
		}
		out.AddColumn(field+YoYSuffix, col)
	}
	return out
}

// RelativeDifference measures each company's value against the contemporaneous
// peer average. Rows are grouped by calendar year; the Comparison Ratio column
// carries the mean of the non-nil values in that year and the Relative
// Difference column carries value/mean - 1. Rows whose value is nil, or whose
// year has a zero or undefined mean, get nil in both columns.
func RelativeDifference(t *table.Table, field string) *table.Table {
	out := t.SortByEnd()
	if out == nil {
		return nil
	}

	means := make(map[int]*float64)
	for year, idx := range rowsByYear(out) {
		var sum float64
		var n int
		for _, ri := range idx {
			if v := out.Rows[ri].Values[field]; v != nil {
				sum += *v
				n++
			}
		}
		if n > 0 {
			means[year] = table.Float(sum / float64(n))
		}
	}

	comparison := make([]*float64, out.Len())
	diff := make([]*float64, out.Len())
	for i, r := range out.Rows {
		mean := means[r.End.Year()]
		if mean == nil {
			continue
		}
		comparison[i] = mean
		if d := table.SafeDiv(r.Values[field], mean); d != nil {
			diff[i] = table.Float(*d - 1)
		}
	}
	out.AddColumn(ComparisonRatioField, comparison)
	out.AddColumn(RelativeDifferenceField, diff)
	return out
}

// RankEntry is one row of a ranking: a company and its windowed mean value.
type RankEntry struct {
	Company string  `json:"company"`
	Value   float64 `json:"value"`
}

// Ranking restricts the table to the most recent calendar-year window
// (period year >= max year - 2), averages the field per company over that
// window ignoring nils, and returns the companies sorted descending by mean.
// Companies with no non-nil value in the window are excluded.
func Ranking(t *table.Table, field string) []RankEntry {
	if t.Empty() {
		return nil
	}

	maxYear := t.Rows[0].End.Year()
	for _, r := range t.Rows[1:] {
		if y := r.End.Year(); y > maxYear {
			maxYear = y
		}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range t.Rows {
		if r.End.Year() < maxYear-2 {
			continue
		}
		v := r.Values[field]
		if v == nil {
			continue
		}
		if counts[r.Company] == 0 {
			order = append(order, r.Company)
		}
		sums[r.Company] += *v
		counts[r.Company]++
	}

	out := make([]RankEntry, 0, len(order))
	for _, c := range order {
		out = append(out, RankEntry{Company: c, Value: sums[c] / float64(counts[c])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// rowsByCompany returns row indexes grouped by company tag, preserving row
// order within each group. Untagged rows group under the empty string.
func rowsByCompany(t *table.Table) map[string][]int {
	groups := make(map[string][]int)
	for i, r := range t.Rows {
		groups[r.Company] = append(groups[r.Company], i)
	}
	return groups
}

func rowsByYear(t *table.Table) map[int][]int {
	groups := make(map[int][]int)
	for i, r := range t.Rows {
		y := r.End.Year()
		groups[y] = append(groups[y], i)
	}
	return groups
}
