package statements

import (
	"testing"
	"time"

	"finhealth/pkg/core/table"
)

func date(y int) time.Time {
	return time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeBalanceSheetCompleteness(t *testing.T) {
	raw := table.New(FieldTotalAssets, "Goodwill")
	raw.Append(date(2023), map[string]*float64{
		FieldTotalAssets: table.Float(500),
		"Goodwill":       table.Float(40),
	})

	out := NormalizeBalanceSheet(raw)

	if len(out.Fields) != len(BalanceSheetFields) {
		t.Fatalf("expected %d columns, got %d", len(BalanceSheetFields), len(out.Fields))
	}
	for i, f := range BalanceSheetFields {
		if out.Fields[i] != f {
			t.Fatalf("column %d: expected %q, got %q", i, f, out.Fields[i])
		}
	}
	if out.Has("Goodwill") {
		t.Error("non-canonical column must be dropped")
	}
	if v := out.Value(0, FieldTotalAssets); v == nil || *v != 500 {
		t.Errorf("Total Assets lost: %v", v)
	}
	if v := out.Value(0, FieldCurrentAssets); v != nil {
		t.Errorf("missing field must be nil, got %v", v)
	}
}

func TestNormalizeBalanceSheetEquityVariants(t *testing.T) {
	cases := []string{
		FieldTotalEquity,
		"Stockholders Equity",
		"Total Stockholder Equity",
		"Common Stock Equity",
		"Total Equity",
	}
	for _, variant := range cases {
		raw := table.New(variant)
		raw.Append(date(2023), map[string]*float64{variant: table.Float(300)})

		out := NormalizeBalanceSheet(raw)
		if v := out.Value(0, FieldTotalEquity); v == nil || *v != 300 {
			t.Errorf("variant %q: equity not mapped, got %v", variant, v)
		}
	}
}

func TestNormalizeBalanceSheetNoEquityColumn(t *testing.T) {
	raw := table.New(FieldTotalAssets)
	raw.Append(date(2023), map[string]*float64{FieldTotalAssets: table.Float(500)})

	out := NormalizeBalanceSheet(raw)
	if !out.Has(FieldTotalEquity) {
		t.Fatal("equity column must be present even when no candidate matched")
	}
	if v := out.Value(0, FieldTotalEquity); v != nil {
		t.Errorf("unmatched equity must be nil, got %v", v)
	}
}

func TestNormalizeNilInput(t *testing.T) {
	for name, got := range map[string]*table.Table{
		"balance": NormalizeBalanceSheet(nil),
		"income":  NormalizeIncome(nil),
		"cash":    NormalizeCashFlow(nil),
	} {
		if got == nil || got.Len() != 0 {
			t.Errorf("%s: nil raw table must normalize to an empty canonical table", name)
		}
		if len(got.Fields) == 0 {
			t.Errorf("%s: canonical columns must still be declared", name)
		}
	}
}

func TestNormalizeIncomePreservesRowOrder(t *testing.T) {
	raw := table.New(FieldTotalRevenue)
	raw.Append(date(2023), map[string]*float64{FieldTotalRevenue: table.Float(3)})
	raw.Append(date(2021), map[string]*float64{FieldTotalRevenue: table.Float(1)})

	out := NormalizeIncome(raw)
	if !out.Rows[0].End.Equal(date(2023)) {
		t.Error("normalization must preserve source row order")
	}
}
