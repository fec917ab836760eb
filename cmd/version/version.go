package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comonadd/codetemplate/internal/runtime"
)

// Default placeholder value, set with -ldflags "-X .../cmd/version.Version=v1.2.3".
var Version = "development"

func New(runtimeContext *runtime.Context) *cobra.Command {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the codetemplate version",
		Long:  "This command prints the current version of codetemplate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := runtimeContext.Version
			if v == "" {
				v = Version
			}
			fmt.Fprintln(cmd.OutOrStdout(), "codetemplate", v)
			return nil
		},
	}

	return versionCmd
}
