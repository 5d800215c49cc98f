package mcptools_test

import (
	"context"
	"testing"

	"github.com/redis-developer/redisctl/pkg/mcptools"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchReadOnlyIgnoresWriteGate(t *testing.T) {
	t.Parallel()

	tool := mcptools.ToolDefinition{
		Name:       "db_get",
		Permission: mcptools.ReadOnly,
		Schema:     map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (string, error) {
			return "ok", nil
		},
	}

	out, err := mcptools.Dispatch(context.Background(), tool, map[string]any{}, false)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestDispatchNonDestructiveRejectedWhenWritesDisallowed(t *testing.T) {
	t.Parallel()

	tool := mcptools.ToolDefinition{
		Name:       "database_create",
		Permission: mcptools.NonDestructive,
		Schema:     map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (string, error) {
			t.Fatal("handler must not run when writes are disallowed")

			return "", nil
		},
	}

	_, err := mcptools.Dispatch(context.Background(), tool, map[string]any{}, false)
	require.Error(t, err)

	var writeDisallowed rctlerr.WriteDisallowed
	require.ErrorAs(t, err, &writeDisallowed)
}

func TestDispatchNonDestructiveAllowedWhenWritesAllowed(t *testing.T) {
	t.Parallel()

	tool := mcptools.ToolDefinition{
		Name:       "database_create",
		Permission: mcptools.NonDestructive,
		Schema:     map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (string, error) {
			return "created", nil
		},
	}

	out, err := mcptools.Dispatch(context.Background(), tool, map[string]any{}, true)
	require.NoError(t, err)
	assert.Equal(t, "created", out)
}

func TestDispatchMissingRequiredField(t *testing.T) {
	t.Parallel()

	tool := mcptools.ToolDefinition{
		Name:       "db_get",
		Permission: mcptools.ReadOnly,
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"key": map[string]any{"type": "string"}},
			"required":   []string{"key"},
		},
		Handler: func(context.Context, map[string]any) (string, error) {
			t.Fatal("handler must not run when required input is missing")

			return "", nil
		},
	}

	_, err := mcptools.Dispatch(context.Background(), tool, map[string]any{}, true)
	require.Error(t, err)

	var toolErr mcptools.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "key", toolErr.Field)
}

func TestReadOnlySafeDoesNotRequireWriteGate(t *testing.T) {
	t.Parallel()

	assert.False(t, mcptools.ReadOnlySafe.RequiresWriteGate())
	assert.False(t, mcptools.ReadOnly.RequiresWriteGate())
	assert.True(t, mcptools.NonDestructive.RequiresWriteGate())
}
