package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewRegenCheckMCPServer creates a new MCP server with all RegenCheck tools
// and resources registered. The repoPath is the root of the repository whose
// service directories are verified.
func NewRegenCheckMCPServer(repoPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"regencheck",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, repoPath)
	registerResources(s, repoPath)

	return s
}
