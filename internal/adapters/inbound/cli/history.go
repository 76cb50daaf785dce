package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regencheck/regencheck/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "history [service]",
		Short: "Show past verification outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := ""
			if len(args) == 1 {
				service = args[0]
			}

			entries, err := newVerifyService().History(path, service)
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Repository root")

	return cmd
}
