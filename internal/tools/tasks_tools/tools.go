package tasks_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/tools/batch"
	"github.com/teemow/gtasks-mcp/internal/tools/common"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

// serviceHandler is a tool handler that already has the account's workflow.
type serviceHandler func(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterTasksTools registers all Tasks-related tools with the MCP server.
// Tools that modify data are skipped in read-only mode.
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if s == nil || sc == nil {
		return errors.New("MCP server and server context are required")
	}

	registerTaskListTools(s, sc, readOnly)
	registerTaskTools(s, sc, readOnly)
	registerSubtaskTools(s, sc, readOnly)
	if !readOnly {
		registerBatchTools(s, sc)
		registerReorganizeTool(s, sc)
	}
	return nil
}

// addTool registers tool with instrumentation and resolves the account's
// workflow before calling h.
func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, h serviceHandler) {
	s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			account := common.GetAccountFromArgs(ctx, request.GetArguments())
			svc, err := sc.WorkflowForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return h(ctx, svc, request)
		}))
}

// accountOption is the optional account parameter every tool accepts.
func accountOption() mcp.ToolOption {
	return mcp.WithString("account",
		mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
	)
}

func taskListOption(description string) mcp.ToolOption {
	return mcp.WithString("taskListId",
		mcp.Description(description+" (default: '@default', the user's primary list)"),
	)
}

// toolError renders err as an error result. Validation messages are shown
// as they are; other failures are prefixed with the attempted action.
func toolError(action string, err error) *mcp.CallToolResult {
	if errors.Is(err, workflow.ErrValidation) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}

// reportResult renders a batch report. A report is never an error result,
// even when every element failed.
func reportResult(report *workflow.BatchReport) *mcp.CallToolResult {
	return mcp.NewToolResultText(batch.FormatReport(report))
}

// objectItems describes an array of objects with the given properties.
func objectItems(properties map[string]any, required ...string) mcp.PropertyOption {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return mcp.Items(schema)
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
