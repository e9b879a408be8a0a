// Package yahoo fetches annual financial statements from the Yahoo Finance
// fundamentals-timeseries endpoint, with an HTML statement-page fallback for
// tickers the JSON API refuses. It implements statements.Provider; returned
// tables are raw and get normalized downstream.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
)

const (
	defaultBaseURL  = "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"
	defaultQuoteURL = "https://finance.yahoo.com/quote"

	// Yahoo rejects the default Go user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	historyYears = 5
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	QuoteURL          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            zerolog.Logger
}

// Client is a rate-limited Yahoo Finance fundamentals client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	quoteURL   string
	log        zerolog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.QuoteURL == "" {
		opts.QuoteURL = defaultQuoteURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 2
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		quoteURL:   strings.TrimRight(opts.QuoteURL, "/"),
		log:        opts.Logger,
	}
}

// BalanceSheet fetches the raw annual balance sheet for a ticker. The equity
// naming variants are requested alongside the canonical field list so the
// normalizer can resolve whichever one the ticker reports.
func (c *Client) BalanceSheet(ctx context.Context, ticker string) (*table.Table, error) {
	fields := append(append([]string(nil), statements.BalanceSheetFields...), statements.EquityCandidates[1:]...)
	return c.fetchStatement(ctx, ticker, "balance-sheet", fields)
}

// IncomeStatement fetches the raw annual income statement for a ticker.
func (c *Client) IncomeStatement(ctx context.Context, ticker string) (*table.Table, error) {
	return c.fetchStatement(ctx, ticker, "financials", statements.IncomeFields)
}

// CashFlow fetches the raw annual cash flow statement for a ticker.
func (c *Client) CashFlow(ctx context.Context, ticker string) (*table.Table, error) {
	return c.fetchStatement(ctx, ticker, "cash-flow", statements.CashFlowFields)
}

func (c *Client) fetchStatement(ctx context.Context, ticker, page string, fields []string) (*table.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, c.timeseriesURL(ticker, fields))
	if err == nil {
		var t *table.Table
		if t, err = decodeTimeseries(body, fields); err == nil && !t.Empty() {
			return t, nil
		}
	}
	c.log.Warn().Err(err).Str("ticker", ticker).Str("statement", page).
		Msg("timeseries fetch failed, trying HTML fallback")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	html, err := c.get(ctx, fmt.Sprintf("%s/%s/%s", c.quoteURL, url.PathEscape(ticker), page))
	if err != nil {
		return nil, fmt.Errorf("fetch %s for %s: %w", page, ticker, err)
	}
	t, err := ParseStatementTable(string(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s page for %s: %w", page, ticker, err)
	}
	return t, nil
}

func (c *Client) timeseriesURL(ticker string, fields []string) string {
	now := time.Now()
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("type", strings.Join(timeseriesKeys(fields), ","))
	q.Set("period1", fmt.Sprintf("%d", now.AddDate(-historyYears, 0, 0).Unix()))
	q.Set("period2", fmt.Sprintf("%d", now.Unix()))
	q.Set("merge", "false")
	return fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
