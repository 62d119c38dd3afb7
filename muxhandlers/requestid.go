package muxhandlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/routedoc/mux"
)

// DefaultRequestIDHeader is the header used when RequestIDConfig.HeaderName
// is empty.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by
// RequestIDMiddleware. Returns an empty string if no ID is present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}

	return ""
}

// LoggerFromContext returns base annotated with the request ID of ctx, if
// any. A nil base means slog.Default().
func LoggerFromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		return base.With("request_id", id)
	}
	return base
}

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to DefaultRequestIDHeader when empty.
	HeaderName string

	// Generate returns a new unique ID. Defaults to NewUUIDv7, which keeps
	// IDs sortable by creation time.
	Generate func() uuid.UUID

	// TrustIncoming reuses a request ID from the incoming header when it
	// parses as a UUID.
	TrustIncoming bool
}

// RequestIDMiddleware returns a middleware that assigns every request a
// UUID. The ID is set on the request header and context for downstream
// handlers and echoed on the response.
func RequestIDMiddleware(cfg RequestIDConfig) mux.MiddlewareFunc {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	generate := cfg.Generate
	if generate == nil {
		generate = NewUUIDv7
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.TrustIncoming {
				if parsed, err := uuid.Parse(r.Header.Get(headerName)); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = generate().String()
			}

			r.Header.Set(headerName, id)
			w.Header().Set(headerName, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			next.ServeHTTP(w, r)
		})
	}
}

// NewUUIDv7 returns a time-ordered UUID, falling back to a random one if
// the clock source fails.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func NewUUIDv7() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
