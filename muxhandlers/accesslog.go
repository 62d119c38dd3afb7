package muxhandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vitalvas/routedoc/mux"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	// Logger receives one record per request. Nil means slog.Default().
	Logger *slog.Logger

	// Level of the records (default: slog.LevelInfo).
	Level slog.Level
}

// AccessLogMiddleware logs every served request with its route template,
// status and duration. Placed after RequestIDMiddleware the record also
// carries the request ID.
func AccessLogMiddleware(cfg AccessLogConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := NewStatusWriter(w)

			next.ServeHTTP(sw, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.Status(),
				"bytes", sw.Written(),
				"duration", time.Since(start),
			}
			if route := mux.CurrentRoute(r); route != nil {
				attrs = append(attrs, "route", route.GetPathTemplate())
			}

			LoggerFromContext(r.Context(), cfg.Logger).Log(r.Context(), cfg.Level, "request", attrs...)
		})
	}
}

// StatusWriter records the status code and body size written through it.
type StatusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

// NewStatusWriter wraps w.
func NewStatusWriter(w http.ResponseWriter) *StatusWriter {
	return &StatusWriter{ResponseWriter: w}
}

func (w *StatusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *StatusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Status returns the written status, or 200 when the handler wrote nothing.
func (w *StatusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written returns the number of body bytes written.
func (w *StatusWriter) Written() int64 {
	return w.written
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *StatusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
