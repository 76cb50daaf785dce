package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/regencheck/regencheck/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the RegenCheck MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start RegenCheck MCP server (stdio)",
		Long:  "Start the RegenCheck MCP server using stdio transport. This allows AI coding assistants to verify service directories and prepare change proposals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if repoPath == "" {
				repoPath = "."
			}
			s := mcpadapter.NewRegenCheckMCPServer(repoPath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&repoPath, "path", "", "Repository root (defaults to current working directory)")

	return cmd
}
