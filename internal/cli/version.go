package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/openapi"
)

// Set at build time with -ldflags "-X".
var (
	version = "dev"
	commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "routedoc %s (commit %s, %s, OpenAPI %s)\n",
				version, commit, runtime.Version(), openapi.Version)
		},
	}
}
