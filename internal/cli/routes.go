package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/internal/demo"
	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/openapi"
)

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table and how each route is documented",
		Long: `Routes prints every registered route with its OpenAPI path and operation ID.
Hidden routes and routes that cannot be documented are listed too, with the
reason in the last column.

Example:
  routedoc routes
  routedoc routes --match '/users/**'`,
		Args: cobra.NoArgs,
		RunE: runRoutes,
	}

	cmd.Flags().StringP("match", "m", "", "only list routes whose template matches the glob")

	return cmd
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	pattern, err := cmd.Flags().GetString("match")
	if err != nil {
		return err
	}
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", openapi.ErrInvalidPathFilter, pattern)
	}

	return listRoutes(cmd, demo.NewRouter(), pattern)
}

func listRoutes(cmd *cobra.Command, router *mux.Router, pattern string) error {
	gen := openapi.NewGenerator()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tROUTE\tOPENAPI PATH\tOPERATION\tNOTE")

	for _, route := range router.Routes() {
		tpl := route.GetPathTemplate()
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, tpl); !ok {
				continue
			}
		}

		path, operation, note := "-", "-", ""
		if po, err := gen.PathOperation(route); err != nil {
			note = err.Error()
		} else {
			path = po.Path
			if po.Operation.OperationID != "" {
				operation = po.Operation.OperationID
			}
		}
		if route.Metadata().Hidden {
			note = "hidden"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", route.GetMethod(), tpl, path, operation, note)
	}

	return tw.Flush()
}
