package portfolio

import (
	"sort"
	"time"

	"finhealth/pkg/core/ratio"
	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
	"finhealth/pkg/core/trend"
)

// coreRatioNames are the ratios that make up the combined comparison sheet
// and the relative-difference views, in presentation order.
var coreRatioNames = []string{
	ratio.CurrentRatio,
	ratio.DebtToEquityRatio,
	ratio.EquityMultiplierRatio,
	ratio.DebtToAssetsRatio,
	ratio.AssetTurnoverRatio,
	ratio.CashFlowToIncomeRatio,
	ratio.OperatingCashFlowRatio,
}

// ProfitabilitySheet is the margin comparison: operating and gross profit
// margins per company with their year-over-year changes.
func (b *Batch) ProfitabilitySheet() *table.Table {
	return b.RatioSheet([]string{ratio.OperatingProfitMargin, ratio.GrossProfitMargin}, true)
}

// LiquiditySheet compares the current ratio and the operating cash flow
// ratio per company, with year-over-year changes.
func (b *Batch) LiquiditySheet() *table.Table {
	return b.RatioSheet([]string{ratio.CurrentRatio, ratio.OperatingCashFlowRatio}, true)
}

// EfficiencySheet compares cash conversion per company, with its
// year-over-year change.
func (b *Batch) EfficiencySheet() *table.Table {
	return b.RatioSheet([]string{ratio.CashFlowToIncomeRatio}, true)
}

// WholeRatioSheet joins all core ratios into one table, one row per
// company-period.
func (b *Batch) WholeRatioSheet() *table.Table {
	return b.RatioSheet(coreRatioNames, false)
}

// RatioSheet builds a multi-company sheet for the named ratios. Per company,
// the ratio series are joined on period-end date; with withYoY each ratio
// also gets its change column. Company blocks are concatenated in batch
// order.
func (b *Batch) RatioSheet(names []string, withYoY bool) *table.Table {
	fields := make([]string, 0, 2*len(names))
	for _, n := range names {
		fields = append(fields, n)
		if withYoY {
			fields = append(fields, n+trend.YoYSuffix)
		}
	}

	parts := make([]*table.Table, 0, len(b.Datasets))
	for _, ds := range b.Datasets {
		if ds == nil {
			continue
		}
		sheet := companySheet(ds, names)
		if withYoY {
			sheet = trend.AddYoY(sheet, names...)
		}
		parts = append(parts, sheet.Reindex(fields).Tagged(ds.Ticker))
	}
	return table.Concat(append([]*table.Table{table.New(fields...)}, parts...)...)
}

// RelativeDifferences computes, for every core ratio, the per-year peer mean
// and each company's fractional deviation from it.
func (b *Batch) RelativeDifferences() map[string]*table.Table {
	out := make(map[string]*table.Table, len(coreRatioNames))
	for _, name := range coreRatioNames {
		out[name] = trend.RelativeDifference(b.RatioSheet([]string{name}, false), name)
	}
	return out
}

// companySheet computes the named ratios for one company and joins them on
// period-end date, ascending.
func companySheet(ds *statements.Dataset, names []string) *table.Table {
	byEnd := make(map[int64]map[string]*float64)
	ends := make([]time.Time, 0)

	for _, name := range names {
		def, ok := ratio.ByName(name)
		if !ok {
			continue
		}
		for _, r := range ratio.Compute(ds, def).Rows {
			key := r.End.Unix()
			row, seen := byEnd[key]
			if !seen {
				row = make(map[string]*float64, len(names))
				byEnd[key] = row
				ends = append(ends, r.End)
			}
			row[name] = r.Values[name]
		}
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })

	out := table.New(names...)
	for _, end := range ends {
		out.Append(end, byEnd[end.Unix()])
	}
	return out
}
