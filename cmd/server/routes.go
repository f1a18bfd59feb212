package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/app"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/pricing"
)

type server struct {
	app    *app.App
	logger *zap.Logger
}

func newServer(a *app.App, logger *zap.Logger) *server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &server{app: a, logger: logger.Named("http")}
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/calc", s.handleCalc)

	r.Get("/estimates", s.handleEstimatesList)
	r.Post("/estimates", s.handleEstimateCreate)
	r.Post("/estimates/delete", s.handleEstimatesDelete)
	r.Get("/estimates/{id}", s.handleEstimateDetail)
	r.Post("/estimates/{id}", s.handleEstimateUpdate)
	r.Get("/estimates/{id}/text", s.handleEstimateText)
	r.Get("/estimates/{id}/pdf", s.handleEstimatePDF)

	r.Get("/export/pdf", s.handleExportPDF)
	r.Get("/export/xlsx", s.handleExportXLSX)

	r.Get("/settings", s.handleSettings)
	r.Post("/settings/pricing", s.handleSettingsPricing)
	r.Post("/settings/company", s.handleSettingsCompany)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP statuses. Messages are shown to the
// contractor as-is.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *estimate.ValidationError
		ferr *formError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message()})
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ferr.msg})
	case errors.Is(err, estimate.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Presupuesto no encontrado."})
	case errors.Is(err, pricing.ErrCoverageNotPositive):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "La cobertura debe ser mayor a 0."})
	default:
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "No se pudo completar la operación."})
	}
}
