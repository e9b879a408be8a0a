package ratio

import (
	"testing"
	"time"

	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
)

func date(y int) time.Time {
	return time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC)
}

func dataset(ticker string, bs, is, cf map[int]map[string]*float64) *statements.Dataset {
	build := func(fields []string, data map[int]map[string]*float64) *table.Table {
		t := table.New(fields...)
		years := make([]int, 0, len(data))
		for y := range data {
			years = append(years, y)
		}
		// insertion-sort the years so rows come out ascending
		for i := 1; i < len(years); i++ {
			for j := i; j > 0 && years[j] < years[j-1]; j-- {
				years[j], years[j-1] = years[j-1], years[j]
			}
		}
		for _, y := range years {
			t.Append(date(y), data[y])
		}
		return t
	}
	return &statements.Dataset{
		Ticker:       ticker,
		BalanceSheet: build(statements.BalanceSheetFields, bs),
		Income:       build(statements.IncomeFields, is),
		CashFlow:     build(statements.CashFlowFields, cf),
	}
}

func TestCurrentRatio(t *testing.T) {
	ds := dataset("AAA",
		map[int]map[string]*float64{
			2023: {
				statements.FieldCurrentAssets:      table.Float(150),
				statements.FieldCurrentLiabilities: table.Float(100),
			},
		},
		map[int]map[string]*float64{2023: {}},
		map[int]map[string]*float64{2023: {}},
	)

	def, _ := ByName(CurrentRatio)
	out := Compute(ds, def)
	if v := out.Value(0, CurrentRatio); v == nil || *v != 1.5 {
		t.Errorf("expected 1.5, got %v", v)
	}
}

func TestNullAndZeroDenominator(t *testing.T) {
	ds := dataset("AAA",
		map[int]map[string]*float64{
			2022: {
				statements.FieldCurrentAssets:      table.Float(150),
				statements.FieldCurrentLiabilities: table.Float(0),
			},
			2023: {
				statements.FieldCurrentAssets: table.Float(150),
				// current liabilities missing entirely
			},
		},
		map[int]map[string]*float64{},
		map[int]map[string]*float64{},
	)

	def, _ := ByName(CurrentRatio)
	out := Compute(ds, def)
	if out.Len() != 2 {
		t.Fatalf("expected 2 periods, got %d", out.Len())
	}
	if v := out.Value(0, CurrentRatio); v != nil {
		t.Errorf("zero denominator must yield nil, got %v", v)
	}
	if v := out.Value(1, CurrentRatio); v != nil {
		t.Errorf("nil denominator must yield nil, got %v", v)
	}
}

func TestMarginsScaledToPercent(t *testing.T) {
	ds := dataset("AAA",
		map[int]map[string]*float64{},
		map[int]map[string]*float64{
			2023: {
				statements.FieldTotalRevenue: table.Float(200),
				statements.FieldGrossProfit:  table.Float(80),
				statements.FieldEBIT:         table.Float(30),
			},
		},
		map[int]map[string]*float64{},
	)

	gpm, _ := ByName(GrossProfitMargin)
	if v := Compute(ds, gpm).Value(0, GrossProfitMargin); v == nil || *v != 40 {
		t.Errorf("gross margin expected 40, got %v", v)
	}
	opm, _ := ByName(OperatingProfitMargin)
	if v := Compute(ds, opm).Value(0, OperatingProfitMargin); v == nil || *v != 15 {
		t.Errorf("operating margin expected 15, got %v", v)
	}
}

func TestCrossStatementAlignment(t *testing.T) {
	// OCF ratio: cash flow has 2023 and 2022, balance sheet only 2023.
	ds := dataset("AAA",
		map[int]map[string]*float64{
			2023: {statements.FieldCurrentLiabilities: table.Float(50)},
		},
		map[int]map[string]*float64{},
		map[int]map[string]*float64{
			2022: {statements.FieldOperatingCashFlow: table.Float(40)},
			2023: {statements.FieldOperatingCashFlow: table.Float(100)},
		},
	)

	def, _ := ByName(OperatingCashFlowRatio)
	out := Compute(ds, def)
	if out.Len() != 2 {
		t.Fatalf("expected one row per cash flow period, got %d", out.Len())
	}
	if v := out.Value(0, OperatingCashFlowRatio); v != nil {
		t.Errorf("2022 has no matching balance sheet period, expected nil, got %v", v)
	}
	if v := out.Value(1, OperatingCashFlowRatio); v == nil || *v != 2 {
		t.Errorf("2023 expected 2.0, got %v", v)
	}
}

func TestForDatasetsTagsAndSkips(t *testing.T) {
	good := dataset("GOOD",
		map[int]map[string]*float64{
			2023: {
				statements.FieldCurrentAssets:      table.Float(150),
				statements.FieldCurrentLiabilities: table.Float(100),
			},
		},
		map[int]map[string]*float64{},
		map[int]map[string]*float64{},
	)
	// BARE reports periods but none of the current ratio inputs.
	bare := dataset("BARE",
		map[int]map[string]*float64{
			2023: {statements.FieldTotalAssets: table.Float(10)},
		},
		map[int]map[string]*float64{},
		map[int]map[string]*float64{},
	)

	out := ForDatasets([]*statements.Dataset{good, bare, nil})
	cr := out[CurrentRatio]
	if cr.Len() != 1 {
		t.Fatalf("expected 1 row (BARE and nil skipped), got %d", cr.Len())
	}
	if cr.Rows[0].Company != "GOOD" {
		t.Errorf("row not tagged with ticker: %+v", cr.Rows[0])
	}
	if len(out) != len(Defs) {
		t.Errorf("every ratio must have a table, got %d", len(out))
	}
}
