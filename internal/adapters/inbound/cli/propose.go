package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regencheck/regencheck/internal/adapters/outbound/tui"
	"github.com/regencheck/regencheck/internal/domain"
)

func newProposeCmd() *cobra.Command {
	var (
		serviceDir string
		jsonOutput bool
		force      bool
		dryRun     bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "propose [service]",
		Short: "Prepare a change-proposal branch from a drifted service directory",
		Long:  "Verify the service directory and, when the generated code drifted, commit the regenerated files onto a proposal branch. Gated on the orchestrator's build context: skipped for pull-request validation runs and non-internal projects unless --force is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := serviceDir
			if len(args) == 1 {
				service = args[0]
			}
			if service == "" {
				return fmt.Errorf("specify --service_directory to propose changes for")
			}

			svc := newProposalService()
			bctx := domain.BuildContextFromEnv()
			opts := domain.ProposeOptions{Force: force, DryRun: dryRun}

			prop, outcome, err := svc.Propose(cmd.Context(), path, service, bctx, opts)
			if err != nil {
				return err
			}

			if prop == nil {
				if jsonOutput {
					return renderJSON(cmd, outcome)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to propose: %s is up to date.\n", service)
				return nil
			}

			if jsonOutput {
				return renderJSON(cmd, prop)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProposal(prop))
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceDir, "service_directory", "", "Service directory to propose changes for")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&force, "force", false, "Bypass the build-context gating")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without creating a branch")
	cmd.Flags().StringVar(&path, "path", ".", "Repository root")

	return cmd
}
