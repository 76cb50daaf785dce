package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cacheAdapter "github.com/regencheck/regencheck/internal/adapters/outbound/cache"
	"github.com/regencheck/regencheck/internal/adapters/outbound/config"
	"github.com/regencheck/regencheck/internal/adapters/outbound/generator"
	"github.com/regencheck/regencheck/internal/adapters/outbound/gitinfo"
	historyAdapter "github.com/regencheck/regencheck/internal/adapters/outbound/history"
	"github.com/regencheck/regencheck/internal/adapters/outbound/proposal"
	"github.com/regencheck/regencheck/internal/adapters/outbound/scanner"
	"github.com/regencheck/regencheck/internal/application"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "regencheck",
		Short:         "Keep generated client code in sync with its API specification",
		Long:          "RegenCheck regenerates a service directory's client code from its checked-in API specification and verifies that nothing drifted, proposing a change when it did.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newProposeCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// newVerifyService wires the standard set of outbound adapters.
func newVerifyService() *application.VerifyService {
	return application.NewVerifyService(
		scanner.New(),
		generator.New(),
		config.New(),
		gitinfo.New(),
		cacheAdapter.New(),
		historyAdapter.New(),
	)
}

func newProposalService() *application.ProposalService {
	return application.NewProposalService(newVerifyService(), proposal.New(), config.New())
}
