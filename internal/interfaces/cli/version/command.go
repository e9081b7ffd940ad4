package version

import (
	"fmt"

	"github.com/spf13/cobra"

	buildinfo "github.com/orris-inc/visitorpass/internal/shared/version"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Current().String())
		},
	}
}
