package yahoo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"finhealth/pkg/core/table"
)

// ParseStatementTable extracts a financial statement from a quote-page HTML
// table. The expected shape is a header row of period-end dates followed by
// one row per line item, values column-aligned with the header. The page is
// column-per-period; the result is transposed into the row-per-period model.
func ParseStatementTable(html string) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out *table.Table
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		parsed := parseOneTable(tbl)
		if parsed != nil && !parsed.Empty() {
			out = parsed
			return false
		}
		return true
	})
	if out == nil {
		return nil, fmt.Errorf("no statement table found in document")
	}
	return out, nil
}

func parseOneTable(tbl *goquery.Selection) *table.Table {
	rows := tbl.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	// Header: first cell is the breakdown label, the rest are period dates.
	var dates []time.Time
	rows.First().Find("td, th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		if d, ok := parseDate(strings.TrimSpace(cell.Text())); ok {
			dates = append(dates, d)
		}
	})
	if len(dates) == 0 {
		return nil
	}

	fields := make([]string, 0)
	byDate := make(map[time.Time]map[string]*float64, len(dates))
	for _, d := range dates {
		byDate[d] = make(map[string]*float64)
	}

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cells.First().Text())
		if name == "" {
			return
		}
		fields = append(fields, name)
		cells.Each(func(i int, cell *goquery.Selection) {
			if i == 0 || i > len(dates) {
				return
			}
			byDate[dates[i-1]][name] = parseNumber(cell.Text())
		})
	})
	if len(fields) == 0 {
		return nil
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := table.New(fields...)
	for _, d := range sorted {
		out.Append(d, byDate[d])
	}
	return out
}

var dateLayouts = []string{"1/2/2006", "2006-01-02", "01/02/2006", "Jan 2, 2006"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseNumber reads a statement cell: thousands separators, parenthesized
// negatives, and "--"/"-" placeholders for missing values.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "--" || s == "N/A" {
		return nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if neg {
		v = -v
	}
	return table.Float(v)
}
