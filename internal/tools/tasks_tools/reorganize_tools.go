package tasks_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gtasks-mcp/internal/server"
	"github.com/teemow/gtasks-mcp/internal/workflow"
)

func registerReorganizeTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	addTool(s, sc, mcp.NewTool("tasks_reorganize",
		mcp.WithDescription("Move every task whose title starts with [PREFIX] to the task list mapped to that prefix. "+
			"Destination lists are matched by exact title first, then case-insensitively. Titles are not rewritten."),
		accountOption(),
		mcp.WithObject("prefixMappings",
			mcp.Required(),
			mcp.Description("Map of prefix to destination task list title, e.g. {\"ADMIN\": \"Admin\"}. "+
				"Object keys are applied in sorted order. To control the order, pass an array of "+
				"{\"prefix\", \"taskList\"} objects or a JSON/YAML string instead; those keep the order given."),
			mcp.AdditionalProperties(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("dryRun",
			mcp.Description("Only report the planned moves without changing anything (default: false)"),
		),
	), handleReorganize)
}

func handleReorganize(ctx context.Context, svc *workflow.Service, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mappings, err := parsePrefixMappings(request.GetArguments()["prefixMappings"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := svc.Reorganize(ctx, workflow.ReorganizeCommand{
		Mappings: mappings,
		DryRun:   request.GetBool("dryRun", false),
	})
	if err != nil {
		return toolError("reorganize tasks", err), nil
	}
	return mcp.NewToolResultText(report.String()), nil
}

// parsePrefixMappings accepts a prefix-to-title object, an array of
// {prefix, taskList} objects, or either of those encoded as a string.
// An empty or missing value yields no mappings; the workflow rejects that.
func parsePrefixMappings(param interface{}) ([]workflow.PrefixMapping, error) {
	switch v := param.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return workflow.ParsePrefixMappingsYAML([]byte(v))
	case map[string]interface{}:
		prefixes := make([]string, 0, len(v))
		for prefix := range v {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)

		mappings := make([]workflow.PrefixMapping, 0, len(v))
		for _, prefix := range prefixes {
			list, ok := v[prefix].(string)
			if !ok {
				return nil, fmt.Errorf("task list for prefix %q must be a string", prefix)
			}
			mappings = append(mappings, workflow.PrefixMapping{Prefix: prefix, TaskList: list})
		}
		return mappings, nil
	case []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid prefixMappings: %w", err)
		}
		var mappings []workflow.PrefixMapping
		if err := json.Unmarshal(data, &mappings); err != nil {
			return nil, fmt.Errorf("prefixMappings must be an array of {prefix, taskList} objects: %w", err)
		}
		return mappings, nil
	default:
		return nil, fmt.Errorf("prefixMappings must be an object, an array, or a string, got %T", param)
	}
}
