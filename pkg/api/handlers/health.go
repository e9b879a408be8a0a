package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"finhealth/pkg/core/health"
	"finhealth/pkg/core/portfolio"
)

// HealthHandler serves health assessments.
type HealthHandler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(service *portfolio.Service, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{service: service, log: log}
}

// Get scores one ticker and returns the assessment as JSON.
//
// GET /api/health/{ticker}
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.assess(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// Report renders one ticker's assessment as an HTML report.
//
// GET /api/health/{ticker}/report
func (h *HealthHandler) Report(w http.ResponseWriter, r *http.Request) {
	a, ok := h.assess(w, r)
	if !ok {
		return
	}
	html, err := a.HTML()
	if err != nil {
		h.log.Error().Err(err).Str("ticker", a.Ticker).Msg("report render failed")
		respondError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (h *HealthHandler) assess(w http.ResponseWriter, r *http.Request) (*health.Assessment, bool) {
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return nil, false
	}

	ds, err := h.service.Dataset(r.Context(), ticker)
	if err != nil {
		// Total provider failure still yields a scored No Data assessment;
		// the batch-level contract is that one ticker never hard-fails a view.
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("health fetch failed")
		return health.Score(ticker, nil, nil, nil), true
	}
	return health.Score(ticker, ds.BalanceSheet, ds.Income, ds.CashFlow), true
}
