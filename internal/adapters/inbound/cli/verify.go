package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regencheck/regencheck/internal/adapters/outbound/tui"
	"github.com/regencheck/regencheck/internal/application"
	"github.com/regencheck/regencheck/internal/domain"
)

func newVerifyCmd() *cobra.Command {
	var (
		serviceDir string
		all        bool
		jsonOutput bool
		showDiff   bool
		noCache    bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "verify [service]",
		Short: "Verify a service directory's generated code against its specification",
		Long:  "Regenerate the service directory's client code from its API specification into a scratch directory and compare byte-for-byte against the checked-in files. Exits 0 only when nothing drifted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := serviceDir
			if len(args) == 1 {
				service = args[0]
			}
			if !all && service == "" {
				return fmt.Errorf("specify --service_directory or use --all to verify every service")
			}

			svc := newVerifyService()
			opts := domain.VerifyOptions{NoCache: noCache, IncludeDiffs: showDiff}

			if all {
				return runVerifyAll(cmd, svc, path, opts, jsonOutput)
			}
			return runVerifySingle(cmd, svc, path, service, opts, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&serviceDir, "service_directory", "", "Service directory to verify, relative to the repository root")
	cmd.Flags().BoolVar(&all, "all", false, "Verify every discovered service directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show line diffs for drifted files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Always run the generator, ignoring the fingerprint cache")
	cmd.Flags().StringVar(&path, "path", ".", "Repository root")

	return cmd
}

func runVerifySingle(
	cmd *cobra.Command,
	svc *application.VerifyService,
	path, service string,
	opts domain.VerifyOptions,
	jsonOutput bool,
) error {
	outcome, err := svc.Verify(cmd.Context(), path, service, opts)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if jsonOutput {
		if err := renderJSON(cmd, outcome); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderOutcome(outcome))
	}

	return outcomeError(outcome)
}

func runVerifyAll(
	cmd *cobra.Command,
	svc *application.VerifyService,
	path string,
	opts domain.VerifyOptions,
	jsonOutput bool,
) error {
	outcomes, err := svc.VerifyAll(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if jsonOutput {
		if err := renderJSON(cmd, outcomes); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderOutcomes(outcomes))
	}

	var drifted int
	for _, o := range outcomes {
		if !o.Unchanged() {
			drifted++
		}
	}
	if drifted > 0 {
		return fmt.Errorf("%d of %d service directories drifted or failed", drifted, len(outcomes))
	}
	return nil
}

// outcomeError maps a non-unchanged outcome to the command's error, which
// becomes the non-zero process exit.
func outcomeError(outcome *domain.VerificationOutcome) error {
	switch outcome.Status {
	case domain.StatusChanged:
		return fmt.Errorf("generated code for %s differs from the checked-in tree (%d file(s))",
			outcome.Service, len(outcome.Changes))
	case domain.StatusFailed:
		return fmt.Errorf("verification of %s failed: %s", outcome.Service, outcome.Reason)
	default:
		return nil
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
