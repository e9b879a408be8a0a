package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"finhealth/pkg/core/portfolio"
	"finhealth/pkg/core/ratio"
	"finhealth/pkg/core/table"
	"finhealth/pkg/core/trend"
)

// RatiosHandler serves the ratio comparison sheets, relative-difference
// tables, and ranking tables.
type RatiosHandler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewRatiosHandler creates a RatiosHandler.
func NewRatiosHandler(service *portfolio.Service, log zerolog.Logger) *RatiosHandler {
	return &RatiosHandler{service: service, log: log}
}

var sheetBuilders = map[string]func(*portfolio.Batch) *table.Table{
	"whole":         (*portfolio.Batch).WholeRatioSheet,
	"profitability": (*portfolio.Batch).ProfitabilitySheet,
	"liquidity":     (*portfolio.Batch).LiquiditySheet,
	"efficiency":    (*portfolio.Batch).EfficiencySheet,
}

// rankingMetrics maps each rankable metric onto the sheet it lives on.
var rankingMetrics = map[string]string{
	ratio.GrossProfitMargin + trend.YoYSuffix:     "profitability",
	ratio.OperatingProfitMargin + trend.YoYSuffix: "profitability",
	ratio.CurrentRatio:                            "liquidity",
	ratio.OperatingCashFlowRatio:                  "liquidity",
	ratio.CashFlowToIncomeRatio:                   "efficiency",
	ratio.CashFlowToIncomeRatio + trend.YoYSuffix: "efficiency",
}

// Sheet returns one of the ratio comparison sheets.
//
// GET /api/ratios/{sheet}?tickers=AAPL,MSFT[&format=csv]
// where sheet is whole, profitability, liquidity, or efficiency.
func (h *RatiosHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["sheet"]
	build, ok := sheetBuilders[name]
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown ratio sheet %q", name))
		return
	}

	batch, ok := h.fetch(w, r)
	if !ok {
		return
	}
	respondTable(w, r, build(batch), name+"-ratios.csv")
}

// RelativeDifference returns a ratio's per-year peer-mean comparison table.
//
// GET /api/ratios/relative-difference?tickers=...&ratio=Current+Ratio
func (h *RatiosHandler) RelativeDifference(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("ratio")
	if _, ok := ratio.ByName(name); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown ratio %q", name))
		return
	}

	batch, ok := h.fetch(w, r)
	if !ok {
		return
	}
	sheet := trend.RelativeDifference(batch.RatioSheet([]string{name}, false), name)
	respondTable(w, r, sheet, "relative-difference.csv")
}

// Ranking returns companies ranked by their recent-window mean of a metric.
//
// GET /api/rankings?tickers=...&metric=Current+Ratio
func (h *RatiosHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	sheetName, ok := rankingMetrics[metric]
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("metric %q is not rankable", metric))
		return
	}

	batch, ok := h.fetch(w, r)
	if !ok {
		return
	}
	entries := trend.Ranking(sheetBuilders[sheetName](batch), metric)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metric":  metric,
		"ranking": entries,
	})
}

func (h *RatiosHandler) fetch(w http.ResponseWriter, r *http.Request) (*portfolio.Batch, bool) {
	tickers, ok := parseTickers(w, r)
	if !ok {
		return nil, false
	}
	batch, err := h.service.Datasets(r.Context(), tickers)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("ratio batch failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return nil, false
	}
	return batch, true
}
