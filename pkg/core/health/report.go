package health

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// metricOrder fixes the report's metric table ordering; map iteration would
// shuffle it between renders.
var metricOrder = []string{
	MetricLiquidity,
	MetricLeverage,
	MetricSolvency,
	MetricProfitability,
	MetricUnitEconomics,
	MetricEarningsQuality,
	MetricFreeCashFlow,
	MetricTrendChecks,
}

// Markdown renders the assessment as a markdown report: the headline score
// and rating, the per-metric score table, risk flags, and the input snapshot.
func (a *Assessment) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Financial Health: %s\n\n", a.Ticker)
	fmt.Fprintf(&b, "**Score:** %d / 100 — **Rating:** %s\n\n", a.Score, a.Rating)

	if len(a.MetricScores) > 0 {
		b.WriteString("## Metric Scores\n\n")
		b.WriteString("| Metric | Score |\n|---|---|\n")
		for _, m := range metricOrder {
			if s, ok := a.MetricScores[m]; ok {
				fmt.Fprintf(&b, "| %s | %d / 10 |\n", m, s)
			}
		}
		b.WriteString("\n")
	}

	if len(a.Flags) > 0 {
		b.WriteString("## Risk Flags\n\n")
		for _, f := range a.Flags {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if len(a.Snapshot) > 0 {
		b.WriteString("## Snapshot\n\n")
		b.WriteString("| Item | Value |\n|---|---|\n")
		names := make([]string, 0, len(a.Snapshot))
		for name := range a.Snapshot {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %s |\n", name, formatValue(a.Snapshot[name]))
		}
	}
	return b.String()
}

// HTML renders the markdown report to HTML.
func (a *Assessment) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(a.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("render health report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	if *v == float64(int64(*v)) && *v < 1e15 && *v > -1e15 {
		return fmt.Sprintf("%d", int64(*v))
	}
	return fmt.Sprintf("%.4f", *v)
}
