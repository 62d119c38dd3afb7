package muxhandlers

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vitalvas/routedoc/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives one error record per recovered panic. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Stack adds the goroutine stack to the log record.
	Stack bool
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers. The client gets 500 Internal Server Error and the
// panic is logged with the request ID and the matched route template.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}

				attrs := []any{
					"panic", rv,
					"method", r.Method,
					"path", r.URL.Path,
				}
				if route := mux.CurrentRoute(r); route != nil {
					attrs = append(attrs, "route", route.GetPathTemplate())
				}
				if cfg.Stack {
					attrs = append(attrs, "stack", string(debug.Stack()))
				}

				LoggerFromContext(r.Context(), cfg.Logger).Error("panic recovered", attrs...)

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
