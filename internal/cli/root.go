// Package cli provides the command-line interface for routedoc.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vitalvas/routedoc/internal/config"
)

// Execute runs the routedoc CLI until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routedoc",
		Short: "Generate and serve OpenAPI documents from a live route table",
		Long: `routedoc walks the route table of the bundled API, derives an OpenAPI 3.1
document from the routes and their declared types and either writes it out
or serves it next to the API with an interactive docs UI.

Example:
  routedoc generate -f yaml -o openapi.yaml   # write the document
  routedoc routes --match '/users/**'         # inspect the route table
  routedoc serve --listen :8080               # serve the API and its docs`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default: routedoc.yaml in the working directory)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text, json")

	cmd.AddCommand(
		newGenerateCmd(),
		newServeCmd(),
		newRoutesCmd(),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig reads the config file named by --config (or the first one
// found in the working directory), layers the bound flags on top and
// validates the result.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*viper.Viper, *config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	v, err := config.New(configPath)
	if err != nil {
		return nil, nil, err
	}

	bindings["log.level"] = "log-level"
	bindings["log.format"] = "log-format"
	if err := bindFlags(v, cmd.Flags(), bindings); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return v, cfg, nil
}

// bindFlags binds config keys to flags. Only flags set on the command line
// take part, so an unset flag never hides a config file value.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newLogger builds the slog logger described by the log config.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), nil
}
