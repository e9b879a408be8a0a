// Package api wires the HTTP surface: routing, middleware, and the server
// lifecycle.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"finhealth/pkg/api/handlers"
	"finhealth/pkg/core/portfolio"
)

// NewRouter builds the application router.
func NewRouter(service *portfolio.Service, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", livenessHandler).Methods("GET")

	statementsHandler := handlers.NewStatementsHandler(service, log)
	ratiosHandler := handlers.NewRatiosHandler(service, log)
	healthHandler := handlers.NewHealthHandler(service, log)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/statements/{type}", statementsHandler.Get).Methods("GET")
	api.HandleFunc("/ratios/relative-difference", ratiosHandler.RelativeDifference).Methods("GET")
	api.HandleFunc("/ratios/{sheet}", ratiosHandler.Sheet).Methods("GET")
	api.HandleFunc("/rankings", ratiosHandler.Ranking).Methods("GET")
	api.HandleFunc("/health/{ticker}", healthHandler.Get).Methods("GET")
	api.HandleFunc("/health/{ticker}/report", healthHandler.Report).Methods("GET")

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "finhealth-api",
	})
}

// requestIDMiddleware tags every request with an id, honoring one supplied
// by an upstream proxy.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", w.Header().Get("X-Request-ID")).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

func recoveryMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error().
						Interface("error", err).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
