package statements

import (
	"context"

	"finhealth/pkg/core/table"
)

// Provider is the market-data contract the pipeline consumes. Tables are raw:
// time-indexed with provider-defined column names. Normalization onto the
// canonical schemas happens here, not in the provider.
type Provider interface {
	BalanceSheet(ctx context.Context, ticker string) (*table.Table, error)
	IncomeStatement(ctx context.Context, ticker string) (*table.Table, error)
	CashFlow(ctx context.Context, ticker string) (*table.Table, error)
}

// Dataset holds the three normalized statements for one ticker. Statements
// are aligned by period-end date but are not required to have matching
// period counts.
type Dataset struct {
	Ticker       string
	BalanceSheet *table.Table
	Income       *table.Table
	CashFlow     *table.Table
}

// NormalizeBalanceSheet maps a raw balance sheet onto BalanceSheetFields.
// Equity naming variance is resolved first via EquityCandidates, so the
// canonical equity column carries whichever variant the provider reported;
// if none match it is present and entirely nil.
func NormalizeBalanceSheet(raw *table.Table) *table.Table {
	if raw != nil {
		if name, ok := raw.FirstAvailable(EquityCandidates); ok && name != FieldTotalEquity {
			raw = raw.Rename(name, FieldTotalEquity)
		}
	}
	return raw.Reindex(BalanceSheetFields)
}

// NormalizeIncome maps a raw income statement onto IncomeFields.
func NormalizeIncome(raw *table.Table) *table.Table {
	return raw.Reindex(IncomeFields)
}

// NormalizeCashFlow maps a raw cash flow statement onto CashFlowFields.
func NormalizeCashFlow(raw *table.Table) *table.Table {
	return raw.Reindex(CashFlowFields)
}
