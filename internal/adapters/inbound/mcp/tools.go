package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	cacheAdapter "github.com/regencheck/regencheck/internal/adapters/outbound/cache"
	"github.com/regencheck/regencheck/internal/adapters/outbound/config"
	"github.com/regencheck/regencheck/internal/adapters/outbound/generator"
	"github.com/regencheck/regencheck/internal/adapters/outbound/gitinfo"
	historyAdapter "github.com/regencheck/regencheck/internal/adapters/outbound/history"
	"github.com/regencheck/regencheck/internal/adapters/outbound/proposal"
	"github.com/regencheck/regencheck/internal/adapters/outbound/scanner"
	"github.com/regencheck/regencheck/internal/application"
	"github.com/regencheck/regencheck/internal/domain"
)

// registerTools registers all RegenCheck MCP tools on the given server.
func registerTools(s *server.MCPServer, repoPath string) {
	// 1. regencheck_verify
	s.AddTool(
		mcplib.NewTool("regencheck_verify",
			mcplib.WithDescription("Verify a service directory's generated code against its API specification"),
			mcplib.WithString("service",
				mcplib.Required(),
				mcplib.Description("Service directory relative to the repository root"),
			),
			mcplib.WithBoolean("no_cache", mcplib.Description("Always run the generator, ignoring the fingerprint cache")),
		),
		handleVerify(repoPath),
	)

	// 2. regencheck_verify_all
	s.AddTool(
		mcplib.NewTool("regencheck_verify_all",
			mcplib.WithDescription("Verify every discovered service directory and return all outcomes"),
		),
		handleVerifyAll(repoPath),
	)

	// 3. regencheck_list
	s.AddTool(
		mcplib.NewTool("regencheck_list",
			mcplib.WithDescription("List the repository's service directories"),
		),
		handleList(repoPath),
	)

	// 4. regencheck_propose
	s.AddTool(
		mcplib.NewTool("regencheck_propose",
			mcplib.WithDescription("Prepare a change-proposal branch from a drifted service directory"),
			mcplib.WithString("service",
				mcplib.Required(),
				mcplib.Description("Service directory relative to the repository root"),
			),
			mcplib.WithBoolean("force", mcplib.Description("Bypass the build-context gating")),
			mcplib.WithBoolean("dry_run", mcplib.Description("Show the proposal without creating a branch")),
		),
		handlePropose(repoPath),
	)

	// 5. regencheck_history
	s.AddTool(
		mcplib.NewTool("regencheck_history",
			mcplib.WithDescription("Return past verification outcomes for a service directory"),
			mcplib.WithString("service", mcplib.Description("Service directory; empty returns every service")),
		),
		handleHistory(repoPath),
	)
}

// newServices creates the standard set of outbound adapters and services.
func newServices() (*application.VerifyService, *application.ProposalService) {
	verify := application.NewVerifyService(
		scanner.New(),
		generator.New(),
		config.New(),
		gitinfo.New(),
		cacheAdapter.New(),
		historyAdapter.New(),
	)
	return verify, application.NewProposalService(verify, proposal.New(), config.New())
}

func handleVerify(repoPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		service, err := request.RequireString("service")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		noCache, _ := request.GetArguments()["no_cache"].(bool)

		verifySvc, _ := newServices()
		outcome, err := verifySvc.Verify(ctx, repoPath, service, domain.VerifyOptions{NoCache: noCache})
		if err != nil {
			return errorResult(fmt.Sprintf("verify failed: %v", err)), nil
		}
		return jsonResult(outcome)
	}
}

func handleVerifyAll(repoPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		verifySvc, _ := newServices()
		outcomes, err := verifySvc.VerifyAll(ctx, repoPath, domain.VerifyOptions{})
		if err != nil {
			return errorResult(fmt.Sprintf("verify failed: %v", err)), nil
		}
		return jsonResult(outcomes)
	}
}

func handleList(repoPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		verifySvc, _ := newServices()
		services, err := verifySvc.Discover(repoPath)
		if err != nil {
			return errorResult(fmt.Sprintf("discovery failed: %v", err)), nil
		}
		return jsonResult(services)
	}
}

func handlePropose(repoPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		service, err := request.RequireString("service")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		args := request.GetArguments()
		force, _ := args["force"].(bool)
		dryRun, _ := args["dry_run"].(bool)

		_, proposeSvc := newServices()
		prop, outcome, err := proposeSvc.Propose(ctx, repoPath, service, domain.BuildContextFromEnv(),
			domain.ProposeOptions{Force: force, DryRun: dryRun})
		if err != nil {
			return errorResult(fmt.Sprintf("propose failed: %v", err)), nil
		}
		if prop == nil {
			return jsonResult(outcome)
		}
		return jsonResult(prop)
	}
}

func handleHistory(repoPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		service, _ := request.GetArguments()["service"].(string)

		verifySvc, _ := newServices()
		entries, err := verifySvc.History(repoPath, service)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history failed: %v", err)), nil
		}
		return jsonResult(entries)
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
