package mcptools

import (
	"context"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// Handler executes one tool's body once input has been validated and the
// write gate (if applicable) has passed.
type Handler func(ctx context.Context, input map[string]any) (string, error)

// ToolDefinition is one named entry in the tool surface.
type ToolDefinition struct {
	Name        string
	Description string
	// Schema is a JSON-schema-shaped map describing the handler's input.
	Schema     map[string]any
	Permission Permission
	Handler    Handler
}

// ToolError is returned by Dispatch for input-validation failures,
// distinct from errors the handler body itself returns. Write-gating
// failures are reported as rctlerr.WriteDisallowed instead.
type ToolError struct {
	Field  string
	Reason string
}

func (e ToolError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return e.Field + ": " + e.Reason
}

// Dispatch implements the handler-dispatch algorithm of §4.7:
//  1. validate input against the schema's required fields,
//  2. if the handler is not read_only/read_only_safe, consult
//     writesAllowed,
//  3. otherwise invoke the handler.
func Dispatch(ctx context.Context, tool ToolDefinition, input map[string]any, writesAllowed bool) (string, error) {
	if err := validateRequired(tool.Schema, input); err != nil {
		return "", err
	}

	if tool.Permission.RequiresWriteGate() && !writesAllowed {
		return "", rctlerr.WriteDisallowed{Operation: tool.Name}
	}

	return tool.Handler(ctx, input)
}

// validateRequired checks that every field named in schema["required"] is
// present in input. Type-level validation is left to the handler, which
// already has strongly-typed accessors for its own parameters.
func validateRequired(schema map[string]any, input map[string]any) error {
	required, ok := schema["required"].([]string)
	if !ok {
		return nil
	}

	for _, field := range required {
		if _, present := input[field]; !present {
			return ToolError{Field: field, Reason: "required field is missing"}
		}
	}

	return nil
}
