// Package statements defines the canonical statement schemas and the
// normalizer that maps raw provider tables onto them. Provider column sets
// vary by ticker and market; everything downstream of this package sees the
// fixed field lists below, with absent data as nil.
package statements

// Field names used directly by the ratio and health engines.
const (
	FieldCash               = "Cash And Cash Equivalents"
	FieldAccountsReceivable = "Accounts Receivable"
	FieldInventory          = "Inventory"
	FieldCurrentAssets      = "Current Assets"
	FieldTotalAssets        = "Total Assets"
	FieldCurrentLiabilities = "Current Liabilities"
	FieldTotalLiabilities   = "Total Liabilities Net Minority Interest"
	FieldTotalEquity        = "Total Equity Gross Minority Interest"

	FieldTotalRevenue = "Total Revenue"
	FieldGrossProfit  = "Gross Profit"
	FieldEBIT         = "EBIT"
	FieldNetIncome    = "Net Income"

	FieldOperatingCashFlow  = "Operating Cash Flow"
	FieldFreeCashFlow       = "Free Cash Flow"
	FieldCapitalExpenditure = "Capital Expenditure"
)

// BalanceSheetFields is the canonical balance sheet schema: current assets,
// non-current assets, totals, liabilities and equity, in presentation order.
var BalanceSheetFields = []string{
	FieldCash,
	"Other Short Term Investments",
	FieldAccountsReceivable,
	FieldInventory,
	"Other Current Assets",
	FieldCurrentAssets,
	"Net PPE",
	"Investments And Advances",
	"Other Non Current Assets",
	"Total Non Current Assets",
	FieldTotalAssets,
	"Other Current Liabilities",
	"Current Deferred Liabilities",
	"Current Debt And Capital Lease Obligation",
	"Payables And Accrued Expenses",
	FieldCurrentLiabilities,
	"Other Non Current Liabilities",
	"Long Term Debt And Capital Lease Obligation",
	"Total Non Current Liabilities Net Minority Interest",
	FieldTotalLiabilities,
	FieldTotalEquity,
}

// IncomeFields is the canonical income statement schema.
var IncomeFields = []string{
	FieldTotalRevenue,
	FieldGrossProfit,
	"Cost Of Revenue",
	"Operating Income",
	"Operating Expense",
	"Other Non Operating Income Expenses",
	"Tax Provision",
	"Pretax Income",
	FieldNetIncome,
	"Diluted NI Availto Com Stockholders",
	"Net Interest Income",
	"Interest Expense",
	"Interest Income",
	"Normalized Income",
	"Net Income From Continuing And Discontinued Operation",
	"Total Expenses",
	"Diluted Average Shares",
	"Basic Average Shares",
	"Diluted EPS",
	"Basic EPS",
	"Other Income Expense",
	"Tax Effect Of Unusual Items",
	"Tax Rate For Calcs",
	"Normalized EBITDA",
	"Net Income From Continuing Operation Net Minority Interest",
	"Reconciled Depreciation",
	"Reconciled Cost Of Revenue",
	"EBITDA",
	FieldEBIT,
}

// CashFlowFields is the canonical cash flow statement schema.
var CashFlowFields = []string{
	FieldFreeCashFlow,
	"Repurchase Of Capital Stock",
	"Repayment Of Debt",
	"Issuance Of Debt",
	FieldCapitalExpenditure,
	"End Cash Position",
	"Financing Cash Flow",
	"Investing Cash Flow",
	FieldOperatingCashFlow,
}

// EquityCandidates lists provider column names for total equity, in
// preference order. Naming varies across tickers and markets; the first
// match is mapped onto FieldTotalEquity at normalization time.
var EquityCandidates = []string{
	FieldTotalEquity,
	"Stockholders Equity",
	"Total Stockholder Equity",
	"Common Stock Equity",
	"Total Equity",
}
