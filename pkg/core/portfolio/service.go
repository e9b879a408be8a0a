// Package portfolio fetches and normalizes statements for sets of tickers,
// caches the batches, and assembles the combined multi-company tables the
// comparison views are built from.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"finhealth/pkg/core/statements"
	"finhealth/pkg/core/table"
)

// Batch is the fetched portfolio: one dataset per requested ticker, in
// request order. A ticker whose fetch failed entirely is present with empty
// normalized statements so downstream stages degrade to "No Data" instead of
// aborting the batch.
type Batch struct {
	Tickers  []string
	Datasets []*statements.Dataset
}

// Service fetches statements through a provider with bounded concurrency.
type Service struct {
	provider statements.Provider
	cache    *memoCache
	workers  int
	log      zerolog.Logger
}

// Config holds Service tuning. Zero values fall back to defaults.
type Config struct {
	CacheTTL time.Duration
	Workers  int
	Logger   zerolog.Logger
}

// NewService creates a Service around a provider.
func NewService(provider statements.Provider, cfg Config) *Service {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	return &Service{
		provider: provider,
		cache:    newMemoCache(cfg.CacheTTL),
		workers:  cfg.Workers,
		log:      cfg.Logger,
	}
}

// Dataset fetches and normalizes the three statements for one ticker. A
// single statement failing is absorbed: it becomes an empty normalized table
// and the rest proceed. Only all three failing is an error.
func (s *Service) Dataset(ctx context.Context, ticker string) (*statements.Dataset, error) {
	type fetch struct {
		name string
		get  func(context.Context, string) (*table.Table, error)
	}
	raws := make([]*table.Table, 3)
	failures := 0
	for i, f := range []fetch{
		{"balance sheet", s.provider.BalanceSheet},
		{"income statement", s.provider.IncomeStatement},
		{"cash flow", s.provider.CashFlow},
	} {
		raw, err := f.get(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Str("statement", f.name).
				Msg("statement fetch failed")
			failures++
			continue
		}
		raws[i] = raw
	}
	if failures == 3 {
		return nil, fmt.Errorf("no statements available for %s", ticker)
	}

	return &statements.Dataset{
		Ticker:       ticker,
		BalanceSheet: statements.NormalizeBalanceSheet(raws[0]),
		Income:       statements.NormalizeIncome(raws[1]),
		CashFlow:     statements.NormalizeCashFlow(raws[2]),
	}, nil
}

// Datasets fetches a batch of tickers concurrently, at most workers in
// flight. Per-ticker failures are absorbed as empty datasets; the batch
// fails hard only when every ticker fails. Results come back in request
// order and are cached by the exact ticker list.
func (s *Service) Datasets(ctx context.Context, tickers []string) (*Batch, error) {
	if len(tickers) == 0 {
		return &Batch{}, nil
	}
	if b, ok := s.cache.get(tickers); ok {
		s.log.Debug().Strs("tickers", tickers).Msg("portfolio cache hit")
		return b, nil
	}

	datasets := make([]*statements.Dataset, len(tickers))
	failed := make([]bool, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			ds, err := s.Dataset(gctx, ticker)
			if err != nil {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("ticker skipped in batch")
				datasets[i] = emptyDataset(ticker)
				failed[i] = true
				return nil
			}
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allFailed := true
	for _, f := range failed {
		if !f {
			allFailed = false
			break
		}
	}
	if allFailed {
		return nil, fmt.Errorf("no data available for any of %d tickers", len(tickers))
	}

	b := &Batch{Tickers: append([]string(nil), tickers...), Datasets: datasets}
	s.cache.put(tickers, b)
	return b, nil
}

func emptyDataset(ticker string) *statements.Dataset {
	return &statements.Dataset{
		Ticker:       ticker,
		BalanceSheet: statements.NormalizeBalanceSheet(nil),
		Income:       statements.NormalizeIncome(nil),
		CashFlow:     statements.NormalizeCashFlow(nil),
	}
}

// CombinedBalanceSheets concatenates the batch's balance sheets with rows
// tagged by ticker, in request order.
func (b *Batch) CombinedBalanceSheets() *table.Table {
	return b.combined(func(ds *statements.Dataset) *table.Table { return ds.BalanceSheet })
}

// CombinedIncome concatenates the batch's income statements.
func (b *Batch) CombinedIncome() *table.Table {
	return b.combined(func(ds *statements.Dataset) *table.Table { return ds.Income })
}

// CombinedCashFlows concatenates the batch's cash flow statements.
func (b *Batch) CombinedCashFlows() *table.Table {
	return b.combined(func(ds *statements.Dataset) *table.Table { return ds.CashFlow })
}

func (b *Batch) combined(pick func(*statements.Dataset) *table.Table) *table.Table {
	parts := make([]*table.Table, 0, len(b.Datasets))
	for _, ds := range b.Datasets {
		if ds == nil {
			continue
		}
		parts = append(parts, pick(ds).Tagged(ds.Ticker))
	}
	return table.Concat(parts...)
}
