package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regencheck/regencheck/internal/adapters/outbound/tui"
)

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the repository's service directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := newVerifyService().Discover(path)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, services)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderServices(services))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Repository root")

	return cmd
}
