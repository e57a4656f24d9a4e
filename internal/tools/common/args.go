package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DecodeArgs copies the request's argument bag into a typed command using
// the command's json tags. Absent arguments leave fields at their zero
// value, so pointer fields distinguish "not sent" from "sent empty".
func DecodeArgs(request mcp.CallToolRequest, into interface{}) error {
	b, err := json.Marshal(request.GetArguments())
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// JSONResult renders v as indented JSON, optionally preceded by a heading.
func JSONResult(heading string, v interface{}) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	if heading == "" {
		return mcp.NewToolResultText(string(b))
	}
	return mcp.NewToolResultText(heading + "\n" + string(b))
}
