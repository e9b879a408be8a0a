// Package health scores a company's financial health from its three
// normalized statements. Eight metrics are scored 0..10 against fixed
// threshold bands, summed, and scaled to 0..100 with a categorical rating
// and a list of human-readable risk flags.
package health

import (
	"math"

	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
)

// Metric names, keys of Assessment.MetricScores.
const (
	MetricLiquidity       = "Liquidity (Current Ratio)"
	MetricLeverage        = "Leverage (Debt/Equity proxy)"
	MetricSolvency        = "Solvency (Liab/Assets)"
	MetricProfitability   = "Profitability (Operating Margin)"
	MetricUnitEconomics   = "Unit Economics (Gross Margin)"
	MetricEarningsQuality = "Earnings Quality (OCF/Net Income)"
	MetricFreeCashFlow    = "Free Cash Flow (FCF)"
	MetricTrendChecks     = "Trend Checks (3y)"
)

// Ratings, from best to worst.
const (
	RatingStrong = "Strong"
	RatingOkay   = "Okay"
	RatingWeak   = "Weak"
	RatingRisky  = "Risky"
	RatingNoData = "No Data"
)

// Assessment is the scoring result for one ticker. Snapshot records every
// raw input and intermediate ratio used in scoring, for display and audit;
// nil values mark inputs the provider did not report.
type Assessment struct {
	Ticker       string              `json:"ticker"`
	Score        int                 `json:"score"`
	Rating       string              `json:"rating"`
	MetricScores map[string]int      `json:"metric_scores"`
	Flags        []string            `json:"flags"`
	Snapshot     map[string]*float64 `json:"snapshot"`
}

// Score assesses one company from its normalized statements. Scoring uses
// only the most recent period of each statement, plus a trailing 3-period
// window for the trend checks. If any statement is missing or empty the
// result is an immediate "No Data" with no partial computation.
func Score(ticker string, balanceSheet, income, cashFlow *table.Table) *Assessment {
	if balanceSheet.Empty() || income.Empty() || cashFlow.Empty() {
		return &Assessment{
			Ticker:       ticker,
			Rating:       RatingNoData,
			MetricScores: map[string]int{},
			Flags:        []string{"Missing statements from the market data provider for this ticker."},
			Snapshot:     map[string]*float64{},
		}
	}

	bs := balanceSheet.SortByEnd()
	is := income.SortByEnd()
	cf := cashFlow.SortByEnd()

	a := &Assessment{
		Ticker:       ticker,
		MetricScores: make(map[string]int, 8),
		Flags:        []string{},
		Snapshot:     make(map[string]*float64, 20),
	}

	latestBS := bs.Rows[len(bs.Rows)-1]
	latestIS := is.Rows[len(is.Rows)-1]
	latestCF := cf.Rows[len(cf.Rows)-1]

	curAssets := latestBS.Values[statements.FieldCurrentAssets]
	curLiab := latestBS.Values[statements.FieldCurrentLiabilities]
	totAssets := latestBS.Values[statements.FieldTotalAssets]
	totLiab := latestBS.Values[statements.FieldTotalLiabilities]
	equity := latestBS.Values[statements.FieldTotalEquity]
	cash := latestBS.Values[statements.FieldCash]

	revenue := latestIS.Values[statements.FieldTotalRevenue]
	ebit := latestIS.Values[statements.FieldEBIT]
	grossProfit := latestIS.Values[statements.FieldGrossProfit]
	netIncome := latestIS.Values[statements.FieldNetIncome]

	ocf := latestCF.Values[statements.FieldOperatingCashFlow]
	fcf := latestCF.Values[statements.FieldFreeCashFlow]
	capex := latestCF.Values[statements.FieldCapitalExpenditure]

	a.Snapshot["Current Assets"] = curAssets
	a.Snapshot["Current Liabilities"] = curLiab
	a.Snapshot["Total Assets"] = totAssets
	a.Snapshot["Total Liabilities"] = totLiab
	a.Snapshot["Total Equity"] = equity
	a.Snapshot["Cash & Equivalents"] = cash
	a.Snapshot["Revenue"] = revenue
	a.Snapshot["EBIT"] = ebit
	a.Snapshot["Gross Profit"] = grossProfit
	a.Snapshot["Net Income"] = netIncome
	a.Snapshot["Operating Cash Flow"] = ocf
	a.Snapshot["Free Cash Flow"] = fcf
	a.Snapshot["Capex"] = capex

	// ==== 1) Liquidity: current ratio ====
	currentRatio := table.SafeDiv(curAssets, curLiab)
	a.Snapshot["Current Ratio"] = currentRatio
	switch {
	case currentRatio == nil:
		a.MetricScores[MetricLiquidity] = 0
		a.flag("Could not compute Current Ratio (missing current assets/liabilities).")
	case *currentRatio >= 1.5:
		a.MetricScores[MetricLiquidity] = 10
	case *currentRatio >= 1.0:
		a.MetricScores[MetricLiquidity] = 7
	case *currentRatio >= 0.8:
		a.MetricScores[MetricLiquidity] = 4
		a.flag("Current Ratio is below 1.0 (tight short-term liquidity).")
	default:
		a.MetricScores[MetricLiquidity] = 1
		a.flag("Current Ratio is very low (high short-term liquidity risk).")
	}

	// ==== 2) Leverage: total liabilities as a debt proxy ====
	debtToEquity := table.SafeDiv(totLiab, equity)
	a.Snapshot["Debt to Equity (Liab/Equity)"] = debtToEquity
	switch {
	case debtToEquity == nil:
		a.MetricScores[MetricLeverage] = 0
		a.flag("Could not compute leverage ratio (missing liabilities/equity).")
	case *debtToEquity <= 1.0:
		a.MetricScores[MetricLeverage] = 10
	case *debtToEquity <= 2.0:
		a.MetricScores[MetricLeverage] = 7
	case *debtToEquity <= 3.0:
		a.MetricScores[MetricLeverage] = 4
		a.flag("High leverage (liabilities materially exceed equity).")
	default:
		a.MetricScores[MetricLeverage] = 1
		a.flag("Very high leverage (risk increases sharply in downturns).")
	}

	// ==== 3) Solvency: liabilities over assets ====
	debtToAssets := table.SafeDiv(totLiab, totAssets)
	a.Snapshot["Debt to Assets (Liab/Assets)"] = debtToAssets
	switch {
	case debtToAssets == nil:
		a.MetricScores[MetricSolvency] = 0
	case *debtToAssets <= 0.5:
		a.MetricScores[MetricSolvency] = 10
	case *debtToAssets <= 0.7:
		a.MetricScores[MetricSolvency] = 7
	case *debtToAssets <= 0.85:
		a.MetricScores[MetricSolvency] = 4
		a.flag("Liabilities are a large share of assets (solvency weaker).")
	default:
		a.MetricScores[MetricSolvency] = 1
		a.flag("Liabilities dominate the asset base (solvency risk).")
	}

	// ==== 4) Profitability: operating margin ====
	opMargin := table.SafeDiv(ebit, revenue)
	a.Snapshot["Operating Margin (EBIT/Revenue)"] = opMargin
	switch {
	case opMargin == nil:
		a.MetricScores[MetricProfitability] = 0
		a.flag("Could not compute operating margin (missing EBIT/revenue).")
	case *opMargin >= 0.20:
		a.MetricScores[MetricProfitability] = 10
	case *opMargin >= 0.12:
		a.MetricScores[MetricProfitability] = 7
	case *opMargin >= 0.06:
		a.MetricScores[MetricProfitability] = 4
		a.flag("Thin operating margin (profits can vanish in a slowdown).")
	default:
		a.MetricScores[MetricProfitability] = 1
		a.flag("Very low operating margin (business model looks fragile).")
	}

	// ==== 5) Unit economics: gross margin ====
	grossMargin := table.SafeDiv(grossProfit, revenue)
	a.Snapshot["Gross Margin (Gross Profit/Revenue)"] = grossMargin
	switch {
	case grossMargin == nil:
		a.MetricScores[MetricUnitEconomics] = 0
	case *grossMargin >= 0.40:
		a.MetricScores[MetricUnitEconomics] = 10
	case *grossMargin >= 0.25:
		a.MetricScores[MetricUnitEconomics] = 7
	case *grossMargin >= 0.15:
		a.MetricScores[MetricUnitEconomics] = 4
		a.flag("Low gross margin (limited pricing power or high input costs).")
	default:
		a.MetricScores[MetricUnitEconomics] = 1
		a.flag("Very low gross margin (watch competitive pressure).")
	}

	// ==== 6) Earnings quality: cash conversion ====
	cashToIncome := table.SafeDiv(ocf, netIncome)
	a.Snapshot["OCF / Net Income"] = cashToIncome
	switch {
	case cashToIncome == nil:
		a.MetricScores[MetricEarningsQuality] = 0
		a.flag("Could not compute OCF/Net Income (missing OCF or Net Income).")
	case *cashToIncome >= 1.2:
		a.MetricScores[MetricEarningsQuality] = 10
	case *cashToIncome >= 0.9:
		a.MetricScores[MetricEarningsQuality] = 7
	case *cashToIncome >= 0.6:
		a.MetricScores[MetricEarningsQuality] = 4
		a.flag("Cash conversion is weak (profits not turning into cash).")
	default:
		a.MetricScores[MetricEarningsQuality] = 1
		a.flag("Very weak cash conversion (potential accrual risk).")
	}

	// ==== 7) Free cash flow ====
	// The slightly-negative band is bounded at -5% of revenue; a missing or
	// zero revenue falls back to a bound of -0.05 absolute.
	switch {
	case fcf == nil:
		a.MetricScores[MetricFreeCashFlow] = 0
		a.flag("Free Cash Flow missing from the market data provider for this ticker.")
	case *fcf > 0:
		a.MetricScores[MetricFreeCashFlow] = 10
	case *fcf > -0.05*revenueOrOne(revenue):
		a.MetricScores[MetricFreeCashFlow] = 6
		a.flag("FCF slightly negative (may be investment-heavy period).")
	default:
		a.MetricScores[MetricFreeCashFlow] = 2
		a.flag("FCF materially negative (funding needs can rise).")
	}

	// ==== 8) Trend sanity checks over the trailing 3 periods ====
	bs3, is3 := bs.LastN(3), is.LastN(3)
	liabTrend := trendPct(bs3.Column(statements.FieldTotalLiabilities))
	revTrend := trendPct(is3.Column(statements.FieldTotalRevenue))
	niTrend := trendPct(is3.Column(statements.FieldNetIncome))
	recTrend := trendPct(bs3.Column(statements.FieldAccountsReceivable))
	invTrend := trendPct(bs3.Column(statements.FieldInventory))

	trendPoints := 10
	if liabTrend != nil && *liabTrend > 0.5 {
		trendPoints -= 3
		a.flag("Liabilities grew >50% over last ~3 reported years (leverage trending up).")
	}
	if revTrend != nil && *revTrend < 0 {
		trendPoints -= 3
		a.flag("Revenue trend is negative over last ~3 reported years.")
	}
	if niTrend != nil && *niTrend < 0 {
		trendPoints -= 3
		a.flag("Net income trend is negative over last ~3 reported years.")
	}
	if recTrend != nil && revTrend != nil && *recTrend > *revTrend+0.25 {
		trendPoints -= 2
		a.flag("Receivables rising much faster than revenue (collection risk).")
	}
	if invTrend != nil && revTrend != nil && *invTrend > *revTrend+0.25 {
		trendPoints -= 2
		a.flag("Inventory rising much faster than revenue (demand/stock risk).")
	}
	if trendPoints < 0 {
		trendPoints = 0
	}
	a.MetricScores[MetricTrendChecks] = trendPoints

	total := 0
	for _, s := range a.MetricScores {
		total += s
	}
	a.Score = int(math.Round(float64(total) / float64(10*len(a.MetricScores)) * 100))

	switch {
	case a.Score >= 80:
		a.Rating = RatingStrong
	case a.Score >= 60:
		a.Rating = RatingOkay
	case a.Score >= 40:
		a.Rating = RatingWeak
	default:
		a.Rating = RatingRisky
	}
	return a
}

func (a *Assessment) flag(msg string) {
	a.Flags = append(a.Flags, msg)
}

// trendPct is (last-first)/abs(first) over the series with nils dropped.
// Returns nil with fewer than 2 usable points or a zero first value.
func trendPct(series []*float64) *float64 {
	vals := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) < 2 {
		return nil
	}
	first, last := vals[0], vals[len(vals)-1]
	if first == 0 {
		return nil
	}
	return table.Float((last - first) / math.Abs(first))
}

func revenueOrOne(revenue *float64) float64 {
	if revenue == nil || *revenue == 0 {
		return 1
	}
	return *revenue
}
