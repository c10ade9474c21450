package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/finplan/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// requestLogger logs one line per request with its outcome.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("op", "server.requestLogger"),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_ip", r.RemoteAddr),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// instrument wraps a calculation endpoint in a span and records its outcome
// in the calculation metrics.
func instrument(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := telemetry.Tracer().Start(r.Context(), "finplan."+operation)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(
				attribute.String("finplan.operation", operation),
				attribute.Int("http.status_code", status),
			)

			outcome := telemetry.StatusOK
			switch {
			case status == http.StatusUnprocessableEntity:
				outcome = telemetry.StatusInvalid
				span.SetStatus(codes.Error, "validation failed")
			case status >= http.StatusBadRequest:
				outcome = telemetry.StatusError
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			telemetry.ObserveCalculation(operation, outcome, time.Since(start).Seconds())
		})
	}
}
