package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"flywheel-agent/src/github"
)

// jsonResult marshals a successful operation result into a text tool
// result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// errorResult renders a classified error as a tool error. The Go error
// return stays nil; protocol-level errors are reserved for the transport.
func errorResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(github.WrapError(err).Error()), nil
}
