package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/internal/demo"
	"github.com/vitalvas/routedoc/openapi"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the OpenAPI document of the route table",
		Long: `Generate walks the route table and writes the resulting OpenAPI document.

Document metadata (title, version, servers, tags) comes from the config file.
Routes can be narrowed with doublestar globs matched against the OpenAPI path.

Example:
  routedoc generate                             # JSON to stdout
  routedoc generate -f yaml -o openapi.yaml     # YAML to a file
  routedoc generate --exclude '/hello/**'       # drop matching paths`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", `output file path, "-" for stdout (default: -)`)
	flags.StringP("format", "f", "", "output format: json, yaml (default: json)")
	flags.StringSliceP("include", "i", nil, "glob patterns of paths to include")
	flags.StringSliceP("exclude", "e", nil, "glob patterns of paths to exclude")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd, map[string]string{
		"output":  "output",
		"format":  "format",
		"include": "include",
		"exclude": "exclude",
	})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	data, err := render(cmd, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Output == "-" || cfg.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}

	logger.Info("document written", "path", cfg.Output, "format", cfg.Format, "bytes", len(data))
	return nil
}

// newSpec returns a spec carrying the configured metadata and filters.
func newSpec(cfg *config.Config, logger *slog.Logger) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.ToInfo()).SetLogger(logger)
	cfg.Apply(spec)
	return spec
}

func render(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	doc, err := newSpec(cfg, logger).Build(cmd.Context(), demo.NewRouter())
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	return serialize(doc, cfg.Format)
}

func serialize(doc *openapi.Document, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return doc.YAML()
	case "json":
		data, err := doc.JSON()
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
