package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	planetools "github.com/ekaya-inc/plane-mcp/pkg/tools"
)

// HealthToolName is the name of the tool registered by RegisterHealthTool.
const HealthToolName = "health"

type healthResult struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Workspace string   `json:"workspace"`
	Tools     []string `json:"tools"`
}

// RegisterHealthTool adds a health check tool reporting the server version,
// the Plane workspace it serves and the Plane operations on offer. It does
// not contact Plane.
func RegisterHealthTool(s *server.MCPServer, version, workspace string) {
	catalog := planetools.Catalog()
	names := make([]string, 0, len(catalog))
	for _, def := range catalog {
		names = append(names, def.Name)
	}

	tool := mcp.NewTool(
		HealthToolName,
		mcp.WithDescription("Returns server health status, version, Plane workspace and available Plane tools"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := json.Marshal(healthResult{
			Status:    "ok",
			Version:   version,
			Workspace: workspace,
			Tools:     names,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
