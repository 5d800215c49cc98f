// Package mcpcmd implements "mcp": starting a Model Context Protocol
// server that exposes the rest of the command tree as typed tools (§4.7).
package mcpcmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/internal/buildmeta"
	"github.com/redis-developer/redisctl/pkg/mcptools"
)

// New builds the "mcp" command.
func New(flags *rootflags.Flags) *cobra.Command {
	var allowWrites bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start a Model Context Protocol server exposing this tool as typed tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := cmd.Root()

			tools := mcptools.Generate(root, mcptools.DefaultOptions())

			targets := indexCommands(root)

			for i := range tools {
				target, ok := targets[tools[i].Name]
				if !ok {
					continue
				}

				tools[i].Handler = invokeCommand(target)
			}

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "redisctl",
				Version: buildmeta.Version,
			}, nil)

			mcptools.Register(server, tools, func() bool { return allowWrites })

			return server.Run(cmd.Context(), mcp.NewStdioTransport())
		},
	}

	cmd.Flags().BoolVar(&allowWrites, "allow-writes", false, "permit non_destructive tools to run (ambient is_write_allowed)")

	return cmd
}

// indexCommands maps every tool name mcptools.Generate would produce back
// to the cobra.Command that will execute it.
func indexCommands(root *cobra.Command) map[string]*cobra.Command {
	index := map[string]*cobra.Command{}

	var walk func(cmd *cobra.Command)

	walk = func(cmd *cobra.Command) {
		parts := strings.Fields(cmd.CommandPath())
		if len(parts) > 1 {
			index[strings.Join(parts[1:], "_")] = cmd
		}

		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}

	walk(root)

	return index
}

// invokeCommand adapts one cobra.Command into a mcptools.Handler: flag
// properties in the tool's schema become --flag value pairs, and an
// optional "args" array supplies positional arguments the schema (derived
// only from flags) has no place for.
func invokeCommand(target *cobra.Command) mcptools.Handler {
	return func(ctx context.Context, input map[string]any) (string, error) {
		var out bytes.Buffer

		root := target.Root()
		argv := append(strings.Fields(target.CommandPath())[1:], buildArgs(target, input)...)

		target.SetOut(&out)
		target.SetErr(&out)
		target.SetContext(ctx)
		root.SetArgs(argv)

		defer root.SetArgs(nil)

		if err := root.Execute(); err != nil {
			return "", err
		}

		return out.String(), nil
	}
}

func buildArgs(cmd *cobra.Command, input map[string]any) []string {
	var args []string

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}

		if value, ok := input[f.Name]; ok {
			args = append(args, "--"+f.Name, fmt.Sprint(value))
		}
	})

	if raw, ok := input["args"].([]any); ok {
		for _, item := range raw {
			args = append(args, fmt.Sprint(item))
		}
	}

	return args
}
