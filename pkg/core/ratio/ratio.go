// Package ratio derives named financial ratios from normalized statements.
// Every ratio is a pure per-period function of two line items; a nil
// numerator or a nil/zero denominator yields a nil value for that period.
package ratio

import (
	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
)

// Ratio output column names.
const (
	CurrentRatio          = "Current Ratio"
	DebtToEquityRatio     = "Debt to Equity Ratio"
	EquityMultiplierRatio = "Equity Multiplier Ratio"
	DebtToAssetsRatio     = "Debt to Assets Ratio"
	AssetTurnoverRatio    = "Asset Turnover Ratio"
	CashFlowToIncomeRatio = "Cash Flow to Income Ratio"
	OperatingCashFlowRatio = "Operating Cash Flow Ratio"
	GrossProfitMargin     = "Gross Profit Margin"
	OperatingProfitMargin = "Operating Profit Margin"
)

// Statement identifies which normalized table a ratio input comes from.
type Statement int

const (
	BalanceSheet Statement = iota
	Income
	CashFlow
)

// Source names one ratio input: a statement and a line item on it.
type Source struct {
	Statement Statement
	Field     string
}

// Def describes one ratio. Scale is 1 for plain quotients and 100 for
// percentage ratios (margins).
type Def struct {
	Name  string
	Num   Source
	Den   Source
	Scale float64
}

// Defs is the full ratio set, in the order sheets and batch results use.
var Defs = []Def{
	{CurrentRatio, Source{BalanceSheet, statements.FieldCurrentAssets}, Source{BalanceSheet, statements.FieldCurrentLiabilities}, 1},
	{DebtToEquityRatio, Source{BalanceSheet, statements.FieldTotalLiabilities}, Source{BalanceSheet, statements.FieldTotalEquity}, 1},
	{EquityMultiplierRatio, Source{BalanceSheet, statements.FieldTotalAssets}, Source{BalanceSheet, statements.FieldTotalEquity}, 1},
	{DebtToAssetsRatio, Source{BalanceSheet, statements.FieldTotalLiabilities}, Source{BalanceSheet, statements.FieldTotalAssets}, 1},
	{AssetTurnoverRatio, Source{Income, statements.FieldTotalRevenue}, Source{BalanceSheet, statements.FieldTotalAssets}, 1},
	{CashFlowToIncomeRatio, Source{CashFlow, statements.FieldOperatingCashFlow}, Source{Income, statements.FieldNetIncome}, 1},
	{OperatingCashFlowRatio, Source{CashFlow, statements.FieldOperatingCashFlow}, Source{BalanceSheet, statements.FieldCurrentLiabilities}, 1},
	{GrossProfitMargin, Source{Income, statements.FieldGrossProfit}, Source{Income, statements.FieldTotalRevenue}, 100},
	{OperatingProfitMargin, Source{Income, statements.FieldEBIT}, Source{Income, statements.FieldTotalRevenue}, 100},
}

// ByName returns the definition for a ratio name.
func ByName(name string) (Def, bool) {
	for _, d := range Defs {
		if d.Name == name {
			return d, true
		}
	}
	return Def{}, false
}

func statementTable(ds *statements.Dataset, s Statement) *table.Table {
	if ds == nil {
		return nil
	}
	switch s {
	case BalanceSheet:
		return ds.BalanceSheet
	case Income:
		return ds.Income
	default:
		return ds.CashFlow
	}
}

// Compute evaluates one ratio for a dataset, period by period. Periods are
// taken from the numerator statement and matched against the denominator
// statement by period-end date; an unmatched period yields nil.
func Compute(ds *statements.Dataset, def Def) *table.Table {
	out := table.New(def.Name)

	num := statementTable(ds, def.Num.Statement)
	if num.Empty() {
		return out
	}
	den := statementTable(ds, def.Den.Statement)

	denByEnd := make(map[int64]*float64, den.Len())
	if den != nil {
		for _, r := range den.Rows {
			denByEnd[r.End.Unix()] = r.Values[def.Den.Field]
		}
	}

	for _, r := range num.Rows {
		v := table.Scale(table.SafeDiv(r.Values[def.Num.Field], denByEnd[r.End.Unix()]), def.Scale)
		out.Append(r.End, map[string]*float64{def.Name: v})
	}
	return out
}

// ComputeAll evaluates every ratio for one dataset, returned keyed by name.
func ComputeAll(ds *statements.Dataset) map[string]*table.Table {
	out := make(map[string]*table.Table, len(Defs))
	for _, def := range Defs {
		out[def.Name] = Compute(ds, def)
	}
	return out
}

// ForDatasets computes every ratio across a portfolio, concatenating the
// per-company series by period with each row tagged by its source ticker.
// A company whose inputs for a ratio are entirely unavailable contributes
// no rows to that ratio's table; partial portfolios are valid.
func ForDatasets(datasets []*statements.Dataset) map[string]*table.Table {
	out := make(map[string]*table.Table, len(Defs))
	for _, def := range Defs {
		parts := make([]*table.Table, 0, len(datasets))
		for _, ds := range datasets {
			if ds == nil {
				continue
			}
			t := Compute(ds, def)
			if allNil(t, def.Name) {
				continue
			}
			parts = append(parts, t.Tagged(ds.Ticker))
		}
		out[def.Name] = table.Concat(append([]*table.Table{table.New(def.Name)}, parts...)...)
	}
	return out
}

func allNil(t *table.Table, field string) bool {
	for _, v := range t.Column(field) {
		if v != nil {
			return false
		}
	}
	return true
}
