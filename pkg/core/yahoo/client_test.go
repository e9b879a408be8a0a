package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finhealth/pkg/core/statements"
)

const timeseriesFixture = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAA"], "type": ["annualTotalAssets"]},
        "timestamp": [1672444800, 1703980800],
        "annualTotalAssets": [
          {"asOfDate": "2022-12-31", "periodType": "12M", "reportedValue": {"raw": 1000, "fmt": "1.00k"}},
          {"asOfDate": "2023-12-31", "periodType": "12M", "reportedValue": {"raw": 1100, "fmt": "1.10k"}}
        ]
      },
      {
        "meta": {"symbol": ["AAA"], "type": ["annualCurrentAssets"]},
        "timestamp": [1703980800],
        "annualCurrentAssets": [
          null,
          {"asOfDate": "2023-12-31", "periodType": "12M", "reportedValue": {"raw": 300}}
        ]
      },
      {
        "meta": {"symbol": ["AAA"], "type": ["annualStockholdersEquity"]},
        "timestamp": [1703980800],
        "annualStockholdersEquity": [
          {"asOfDate": "2023-12-31", "periodType": "12M", "reportedValue": {"raw": 600}}
        ]
      }
    ],
    "error": null
  }
}`

func balanceSheetFields() []string {
	return append(append([]string(nil), statements.BalanceSheetFields...), statements.EquityCandidates[1:]...)
}

func TestDecodeTimeseries(t *testing.T) {
	tbl, err := decodeTimeseries([]byte(timeseriesFixture), balanceSheetFields())
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{statements.FieldCurrentAssets, statements.FieldTotalAssets, "Stockholders Equity"}, tbl.Fields)

	// Rows come out date-ascending.
	assert.Equal(t, "2022-12-31", tbl.Rows[0].End.Format("2006-01-02"))
	require.NotNil(t, tbl.Value(0, statements.FieldTotalAssets))
	assert.Equal(t, 1000.0, *tbl.Value(0, statements.FieldTotalAssets))
	assert.Nil(t, tbl.Value(0, statements.FieldCurrentAssets))

	require.NotNil(t, tbl.Value(1, statements.FieldCurrentAssets))
	assert.Equal(t, 300.0, *tbl.Value(1, statements.FieldCurrentAssets))
	require.NotNil(t, tbl.Value(1, "Stockholders Equity"))
	assert.Equal(t, 600.0, *tbl.Value(1, "Stockholders Equity"))
}

func TestDecodeTimeseriesProviderError(t *testing.T) {
	body := `{"timeseries": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`
	_, err := decodeTimeseries([]byte(body), balanceSheetFields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestClientBalanceSheet(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(timeseriesFixture))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QuoteURL: srv.URL, RequestsPerSecond: 1000, Logger: zerolog.Nop()})
	tbl, err := c.BalanceSheet(context.Background(), "AAA")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	assert.Contains(t, gotQuery, "symbol=AAA")
	assert.Contains(t, gotQuery, "annualTotalAssets")
	assert.Contains(t, gotQuery, "annualStockholdersEquity")
}

func TestClientFallsBackToHTML(t *testing.T) {
	page := `<html><body><table>
      <tr><th>Breakdown</th><th>12/31/2023</th><th>12/31/2022</th></tr>
      <tr><td>Total Assets</td><td>1,100</td><td>1,000</td></tr>
      <tr><td>Current Assets</td><td>300</td><td>--</td></tr>
    </table></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/AAA/balance-sheet" {
			w.Write([]byte(page))
			return
		}
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, QuoteURL: srv.URL, RequestsPerSecond: 1000, Logger: zerolog.Nop()})
	tbl, err := c.BalanceSheet(context.Background(), "AAA")
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "2022-12-31", tbl.Rows[0].End.Format("2006-01-02"))
	require.NotNil(t, tbl.Value(1, "Total Assets"))
	assert.Equal(t, 1100.0, *tbl.Value(1, "Total Assets"))
	assert.Nil(t, tbl.Value(0, "Current Assets"))
}

func TestParseStatementTableNoTable(t *testing.T) {
	_, err := ParseStatementTable("<html><body><p>nothing here</p></body></html>")
	require.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"1,234,567", float64Ptr(1234567)},
		{"(2,500)", float64Ptr(-2500)},
		{"--", nil},
		{"-", nil},
		{"", nil},
		{"N/A", nil},
		{"12.5", float64Ptr(12.5)},
	}
	for _, c := range cases {
		got := parseNumber(c.in)
		if c.want == nil {
			assert.Nil(t, got, "input %q", c.in)
		} else {
			require.NotNil(t, got, "input %q", c.in)
			assert.Equal(t, *c.want, *got, "input %q", c.in)
		}
	}
}

func float64Ptr(v float64) *float64 { return &v }
