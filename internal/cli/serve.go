package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/internal/demo"
	"github.com/vitalvas/routedoc/internal/metrics"
	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/muxhandlers"
	"github.com/vitalvas/routedoc/openapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API together with its live OpenAPI document",
		Long: `Serve starts the bundled API and mounts its OpenAPI document, the docs UI
and Prometheus metrics next to it. The document is regenerated on every
request, and edits to the config file update its metadata without a restart.

Example:
  routedoc serve                          # listen on :8080, docs at /docs
  routedoc serve --listen 127.0.0.1:9000 --ui redoc`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	flags := cmd.Flags()
	flags.String("listen", "", "listen address (default: :8080)")
	flags.String("docs-path", "", "base path of the docs endpoints (default: /docs)")
	flags.String("metrics-path", "", `metrics endpoint path, "-" disables it (default: /metrics)`)
	flags.String("ui", "", "docs UI: swagger, rapidoc, redoc (default: swagger)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, cfg, err := loadConfig(cmd, map[string]string{
		"server.listen":      "listen",
		"server.docsPath":    "docs-path",
		"server.metricsPath": "metrics-path",
		"server.ui":          "ui",
	})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	if path := v.ConfigFileUsed(); path != "" {
		v.OnConfigChange(a.reloadFunc(v))
		v.WatchConfig()
		logger.Info("watching config file", "path", path)
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Listen, err)
	}

	logger.Info("serving", "addr", ln.Addr().String(), "docs", cfg.Server.DocsPath)
	return serveUntilDone(cmd.Context(), a.server(), ln, logger)
}

// app wires the demo API with its docs, middlewares and metrics.
type app struct {
	router  *mux.Router
	spec    *openapi.Spec
	metrics *metrics.Registry
	logger  *slog.Logger
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	ui, err := openapi.ParseDocsUI(cfg.Server.UI)
	if err != nil {
		return nil, err
	}

	a := &app{
		router:  demo.NewRouter(),
		spec:    newSpec(cfg, logger),
		metrics: metrics.NewRegistry(),
		logger:  logger,
	}

	a.router.Use(
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
		muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger, Level: slog.LevelDebug}),
		a.metrics.Middleware(),
	)

	a.spec.Handle(a.router, cfg.Server.DocsPath, &openapi.HandleConfig{
		UI:      ui,
		Logger:  logger,
		OnBuild: a.metrics.ObserveGeneration,
	})

	if path := cfg.Server.MetricsPath; path != "" && path != "-" {
		a.router.Handle(http.MethodGet, path, a.metrics.Handler()).Hidden()
	}

	return a, nil
}

func (a *app) server() *http.Server {
	return &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}
}

// reloadFunc re-reads the document metadata after the config file changed.
// Invalid edits are logged and leave the live spec untouched; listen
// address, paths and filters need a restart.
func (a *app) reloadFunc(v *viper.Viper) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		cfg, err := config.Decode(v)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			a.logger.Error("config reload rejected", "file", e.Name, "op", e.Op.String(), "error", err)
			return
		}

		cfg.ApplyMetadata(a.spec)
		a.logger.Info("config reloaded", "file", e.Name, "title", cfg.OpenAPI.Info.Title, "version", cfg.OpenAPI.Info.Version)
	}
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts the
// server down gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
