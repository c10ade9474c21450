// Package server exposes the calculators as a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/finplan/internal/config"
	"github.com/iwvelando/finplan/internal/planner"
	"github.com/iwvelando/finplan/internal/telemetry"
	"github.com/iwvelando/finplan/pkg/bonds"
	"github.com/iwvelando/finplan/pkg/constants"
	"github.com/iwvelando/finplan/pkg/finance"
	"github.com/iwvelando/finplan/pkg/report"
	"github.com/iwvelando/finplan/pkg/tax"
	"github.com/iwvelando/finplan/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API and
// the prometheus metrics endpoint.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	router := chi.NewRouter()
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Group(func(r chi.Router) {
			r.Use(h.limitBody)
			r.With(instrument("growth")).Post("/growth", h.handleGrowth)
			r.With(instrument("growth_chart")).Post("/growth/chart", h.handleGrowthChart)
			r.With(instrument("pension")).Post("/pension", h.handlePension)
			r.With(instrument("tax")).Post("/tax", h.handleTax)
			r.With(instrument("bond")).Post("/bond", h.handleBond)
			r.With(instrument("plan")).Post("/plan", h.handlePlan)
			r.With(instrument("report_pdf")).Post("/report/pdf", h.handleReportPDF)
		})
	})
	router.Handle("/metrics", promhttp.Handler())

	return router
}

type pensionRequest struct {
	Capital         float64 `json:"capital"`
	RetirementYears float64 `json:"retirementYears"`
	AnnualRatePct   float64 `json:"annualRatePct"`
}

type pensionResponse struct {
	MonthlyPension float64 `json:"monthlyPension"`
	Months         int     `json:"months"`
}

type taxRequest struct {
	Gross     float64    `json:"gross"`
	CostBasis float64    `json:"costBasis"`
	Regime    tax.Regime `json:"regime"`
}

type bondResponse struct {
	*bonds.Valuation
	Classification bonds.Classification `json:"classification"`
}

type planResponse struct {
	*planner.Report
	Summary string `json:"summary"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGrowth"
	var req planner.GrowthRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	result, err := planner.New(h.logger).RunGrowth(req)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleGrowthChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGrowthChart"
	var req planner.GrowthRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	result, err := planner.New(h.logger).RunGrowth(req)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	png, err := report.RenderGrowthChart(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.logger.Error("failed to write chart response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handlePension(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePension"
	var req pensionRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	msgs := validation.ValidatePension(validation.PensionInputs{
		AnnualRatePct:   req.AnnualRatePct,
		RetirementYears: req.RetirementYears,
	})
	if len(msgs) > 0 {
		h.respondCalculationError(w, &planner.ValidationError{Step: "pension", Messages: msgs}, op)
		return
	}

	h.writeJSON(w, http.StatusOK, pensionResponse{
		MonthlyPension: finance.MonthlyPension(req.Capital, req.RetirementYears, req.AnnualRatePct),
		Months:         int(req.RetirementYears * constants.MonthsPerYear),
	})
}

func (h *handler) handleTax(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTax"
	var req taxRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	outcome, err := tax.Apply(req.Gross, req.CostBasis, req.Regime)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

func (h *handler) handleBond(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBond"
	var terms bonds.Terms
	if !h.decode(w, r, &terms, op) {
		return
	}

	valuation, err := planner.New(h.logger).RunBond(terms)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, bondResponse{Valuation: valuation, Classification: valuation.Classification()})
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlan"
	rep, ok := h.runPlan(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, planResponse{Report: rep, Summary: report.ContextSummary(rep)})
}

func (h *handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReportPDF"
	rep, ok := h.runPlan(w, r, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, rep); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="finplan-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write PDF response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) runPlan(w http.ResponseWriter, r *http.Request, op string) (*planner.Report, bool) {
	var plan config.Plan
	if !h.decode(w, r, &plan, op) {
		return nil, false
	}
	if plan.IsEmpty() {
		h.respondErrorWithOp(w, http.StatusBadRequest, "plan declares no growth, retirement or bond section", op)
		return nil, false
	}

	rep, err := planner.New(h.logger).Run(plan)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return nil, false
	}
	return rep, true
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// respondCalculationError maps soft validation failures to 422 with every
// message and structural failures to 400.
func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var verr *planner.ValidationError
	if errors.As(err, &verr) {
		telemetry.RecordValidationFailures(verr.Step, len(verr.Messages))
		h.logger.Info("calculation rejected",
			zap.String("op", op),
			zap.Strings("errors", verr.Messages),
		)
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string][]string{"errors": verr.Messages})
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Run serves handler until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ShutdownTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
			zap.Int64("maxBodySize", cfg.BodySizeBytes()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutdown initiated",
			zap.String("op", "server.Run"),
		)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "server.Run"),
				zap.Error(err),
			)
			return srv.Close()
		}
	}

	return nil
}
