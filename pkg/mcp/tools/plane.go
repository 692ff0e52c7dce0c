package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/plane-mcp/pkg/models"
	planetools "github.com/ekaya-inc/plane-mcp/pkg/tools"
)

var stringItems = mcp.Items(map[string]any{"type": "string"})

// parameterOptions holds the input schema of each Plane tool.
var parameterOptions = map[string][]mcp.ToolOption{
	planetools.CreateProjectTool: {
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("identifier", mcp.Required(),
			mcp.Description("Short uppercase code used in issue codes, e.g. CLT")),
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithNumber("network", mcp.Description("Visibility: 0 = secret, 2 = public (default)")),
	},
	planetools.DeleteProjectTool: {
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete the project")),
	},
	planetools.ListProjectsTool: {},
	planetools.CreateIssueTool: {
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Issue title")),
		mcp.WithString("description", mcp.Description("Plain-text description")),
		mcp.WithString("priority", mcp.Enum(models.PriorityNames()...),
			mcp.Description("Issue priority (default none)")),
		mcp.WithString("state_id", mcp.Description("Workflow state UUID")),
		mcp.WithArray("assignee_ids", stringItems, mcp.Description("Assignee user UUIDs")),
		mcp.WithArray("label_ids", stringItems, mcp.Description("Label UUIDs")),
		mcp.WithString("start_date", mcp.Description("Start date, YYYY-MM-DD")),
		mcp.WithString("target_date", mcp.Description("Target date, YYYY-MM-DD")),
	},
	planetools.ListIssuesTool: {
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithString("state_id", mcp.Description("Only issues in this workflow state")),
		mcp.WithString("priority", mcp.Enum(models.PriorityNames()...),
			mcp.Description("Only issues with this priority")),
		mcp.WithString("assignee_id", mcp.Description("Only issues assigned to this user")),
		mcp.WithString("label_id", mcp.Description("Only issues carrying this label")),
	},
	planetools.UpdateIssueTool: {
		mcp.WithString("issue_id", mcp.Required(),
			mcp.Description("Issue UUID, or an issue code such as CLT-37")),
		mcp.WithString("project_id", mcp.Description("Project UUID; required when issue_id is a UUID")),
		mcp.WithString("state_id", mcp.Description("New workflow state UUID")),
		mcp.WithString("name", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New plain-text description")),
		mcp.WithString("priority", mcp.Enum(models.PriorityNames()...), mcp.Description("New priority")),
		mcp.WithArray("assignee_ids", stringItems, mcp.Description("Replacement assignee user UUIDs")),
		mcp.WithArray("label_ids", stringItems, mcp.Description("Replacement label UUIDs")),
		mcp.WithString("start_date", mcp.Description("Start date, YYYY-MM-DD")),
		mcp.WithString("target_date", mcp.Description("Target date, YYYY-MM-DD")),
	},
	planetools.GetIssueIDTool: {
		mcp.WithString("issue_code", mcp.Required(), mcp.Description("Issue code such as CLT-37")),
	},
}

// RegisterPlaneTools adds every Plane operation of ts to the MCP server.
func RegisterPlaneTools(s *server.MCPServer, ts *planetools.Toolset, logger *zap.Logger) {
	for _, def := range ts.Definitions() {
		s.AddTool(newPlaneTool(def), planeToolHandler(def, logger))
	}
}

func newPlaneTool(def planetools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(def.Description),
		mcp.WithReadOnlyHintAnnotation(def.ReadOnly),
		mcp.WithDestructiveHintAnnotation(def.Destructive),
		mcp.WithIdempotentHintAnnotation(def.Idempotent),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	opts = append(opts, parameterOptions[def.Name]...)
	return mcp.NewTool(def.Name, opts...)
}

func planeToolHandler(def planetools.Definition, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]any)
		if !ok || args == nil {
			args = map[string]any{}
		}
		params, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode arguments: %w", err)
		}

		result := def.Run(ctx, string(params))
		return toCallToolResult(def.Name, result, logger)
	}
}

// toCallToolResult maps an operation result onto MCP. Internal failures become
// Go errors; every other failure is an actionable error result.
func toCallToolResult(name string, result planetools.Result, logger *zap.Logger) (*mcp.CallToolResult, error) {
	switch {
	case result.OK():
		return mcp.NewToolResultText(result.Message), nil
	case result.Kind == planetools.KindInternal:
		logger.Error("Tool failed", zap.String("tool", name), zap.String("error", result.Message))
		return nil, fmt.Errorf("%s: %s", name, result.Message)
	case result.StatusCode != 0:
		return NewErrorResultWithDetails(string(result.Kind), result.Message,
			map[string]any{"status_code": result.StatusCode}), nil
	}
	return NewErrorResult(string(result.Kind), result.Message), nil
}
