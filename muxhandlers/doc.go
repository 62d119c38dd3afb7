// Package muxhandlers provides HTTP middleware handlers for the mux router.
//
// # Request ID Middleware
//
// RequestIDMiddleware assigns each request a UUID (v7 by default), stores it
// in the request context and echoes it in the X-Request-ID response header.
// LoggerFromContext returns a slog logger carrying the ID.
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
//	    TrustIncoming: true,
//	}))
//
// # Recovery Middleware
//
// RecoveryMiddleware turns handler panics into 500 responses and logs them
// with the request ID and the matched route template.
//
//	r.Use(muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
//	    Logger: logger,
//	}))
//
// # Access Log Middleware
//
// AccessLogMiddleware writes one record per request with method, path,
// route template, status, size and duration.
package muxhandlers
