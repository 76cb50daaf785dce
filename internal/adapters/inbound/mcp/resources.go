package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/regencheck/regencheck/internal/adapters/outbound/config"
)

// registerResources registers all RegenCheck MCP resources on the given server.
func registerResources(s *server.MCPServer, repoPath string) {
	// 1. regencheck://config - effective repository configuration
	s.AddResource(
		mcplib.NewResource(
			"regencheck://config",
			"Repository Configuration",
			mcplib.WithResourceDescription("Effective configuration after merging .regencheck.yaml with defaults"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(repoPath),
	)

	// 2. regencheck://services - discovered service directories
	s.AddResource(
		mcplib.NewResource(
			"regencheck://services",
			"Service Directories",
			mcplib.WithResourceDescription("Service directories discovered in the repository"),
			mcplib.WithMIMEType("application/json"),
		),
		handleServicesResource(repoPath),
	)
}

func handleConfigResource(repoPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(repoPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "regencheck://config",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleServicesResource(repoPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		verifySvc, _ := newServices()
		services, err := verifySvc.Discover(repoPath)
		if err != nil {
			return nil, fmt.Errorf("discovering services: %w", err)
		}

		data, err := json.MarshalIndent(services, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling services: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "regencheck://services",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
