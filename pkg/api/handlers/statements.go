package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"finhealth/pkg/core/portfolio"
	"finhealth/pkg/core/table"
)

// StatementsHandler serves combined normalized statements for a portfolio.
type StatementsHandler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewStatementsHandler creates a StatementsHandler.
func NewStatementsHandler(service *portfolio.Service, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{service: service, log: log}
}

// Get returns the combined statement of the requested type for all requested
// tickers, rows tagged by company.
//
// GET /api/statements/{type}?tickers=AAPL,MSFT[&format=csv]
// where type is balance-sheet, income, or cash-flow.
func (h *StatementsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tickers, ok := parseTickers(w, r)
	if !ok {
		return
	}

	kind := mux.Vars(r)["type"]
	var pick func(*portfolio.Batch) *table.Table
	switch kind {
	case "balance-sheet":
		pick = (*portfolio.Batch).CombinedBalanceSheets
	case "income":
		pick = (*portfolio.Batch).CombinedIncome
	case "cash-flow":
		pick = (*portfolio.Batch).CombinedCashFlows
	default:
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown statement type %q", kind))
		return
	}

	batch, err := h.service.Datasets(r.Context(), tickers)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", tickers).Msg("statement batch failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondTable(w, r, pick(batch), kind+".csv")
}

// parseTickers reads the required comma-separated tickers query parameter.
// Tickers are upper-cased; an empty list is a client error.
func parseTickers(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	raw := r.URL.Query().Get("tickers")
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			tickers = append(tickers, p)
		}
	}
	if len(tickers) == 0 {
		respondError(w, http.StatusBadRequest, "tickers query parameter is required")
		return nil, false
	}
	return tickers, true
}
