package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WritesAllowed reports whether mutating tools may run for the lifetime
// of the MCP server process, mirroring the CLI's own write-gating flag.
type WritesAllowed func() bool

// Register adds every tool in tools to server, dispatching each call
// through Dispatch so the read_only/read_only_safe/non_destructive gate
// is enforced identically to direct CLI invocation.
func Register(server *mcp.Server, tools []ToolDefinition, writesAllowed WritesAllowed) {
	for _, tool := range tools {
		addTool(server, tool, writesAllowed)
	}
}

func addTool(server *mcp.Server, tool ToolDefinition, writesAllowed WritesAllowed) {
	schema, err := toInputSchema(tool.Schema)
	if err != nil {
		// The schema is generated internally from the command's own flag
		// set; a shape jsonschema.Schema can't decode is a bug in schema
		// generation, not a runtime condition a caller can recover from.
		panic(fmt.Sprintf("mcptools: tool %q has an invalid schema: %v", tool.Name, err))
	}

	mcpTool := &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: schema,
	}

	handler := func(
		ctx context.Context,
		_ *mcp.CallToolRequest,
		input map[string]any,
	) (*mcp.CallToolResult, map[string]any, error) {
		allowed := true
		if writesAllowed != nil {
			allowed = writesAllowed()
		}

		output, err := Dispatch(ctx, tool, input, allowed)
		if err != nil {
			return errorResult(tool, err), nil, nil
		}

		return successResult(tool, output), nil, nil
	}

	mcp.AddTool(server, mcpTool, handler)
}

// toInputSchema converts the JSON-schema-shaped map buildParameterSchema
// produces into the go-sdk's typed *jsonschema.Schema by round-tripping it
// through JSON, since schema generation only ever builds plain JSON Schema
// documents (type/properties/required/enum/default).
func toInputSchema(schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func errorResult(tool ToolDefinition, err error) *mcp.CallToolResult {
	var b strings.Builder

	b.WriteString("tool '")
	b.WriteString(tool.Name)
	b.WriteString("' failed: ")
	b.WriteString(err.Error())

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
	}
}

func successResult(tool ToolDefinition, output string) *mcp.CallToolResult {
	var b strings.Builder

	b.WriteString("tool '")
	b.WriteString(tool.Name)
	b.WriteString("' completed")

	if output != "" {
		b.WriteString("\n")
		b.WriteString(output)
	}

	return &mcp.CallToolResult{
		IsError: false,
		Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
	}
}
