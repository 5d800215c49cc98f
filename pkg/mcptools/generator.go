package mcptools

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const helpFlagName = "help"

// Options configures tool generation.
type Options struct {
	// ExcludeCommands is a list of command paths to exclude, e.g.
	// "redisctl completions". Prefix matching applies to multi-word
	// entries so excluding a group also excludes its children.
	ExcludeCommands []string
	IncludeHidden   bool
}

// DefaultOptions excludes the meta commands that aren't meaningful as
// standalone tools.
func DefaultOptions() Options {
	return Options{
		ExcludeCommands: []string{
			"redisctl mcp",
			"redisctl completions",
			"redisctl help",
			"redisctl version",
			"redisctl",
		},
	}
}

// Generate walks a cobra command tree and returns a tool definition for
// every runnable leaf command not excluded by opts. The handler field of
// each returned ToolDefinition is left nil; callers set each Handler
// before passing the result to a server.
func Generate(root *cobra.Command, opts Options) []ToolDefinition {
	var tools []ToolDefinition

	generateRecursive(root, &tools, opts)

	return tools
}

func generateRecursive(cmd *cobra.Command, tools *[]ToolDefinition, opts Options) {
	if hasExcludeAnnotation(cmd) {
		return
	}

	if shouldExcludeWithChildren(cmd, opts) {
		return
	}

	isExcluded := shouldExclude(cmd, opts)

	if len(cmd.Commands()) > 0 {
		for _, sub := range cmd.Commands() {
			generateRecursive(sub, tools, opts)
		}

		if isExcluded || !isRunnableCommand(cmd) {
			return
		}
	}

	if !isExcluded && isRunnableCommand(cmd) {
		*tools = append(*tools, commandToToolDefinition(cmd))
	}
}

func hasExcludeAnnotation(cmd *cobra.Command) bool {
	return cmd.Annotations != nil && cmd.Annotations[AnnotationExclude] == "true"
}

func shouldExcludeWithChildren(cmd *cobra.Command, opts Options) bool {
	cmdPath := cmd.CommandPath()

	for _, excluded := range opts.ExcludeCommands {
		if strings.Contains(excluded, " ") && strings.HasPrefix(cmdPath, excluded+" ") {
			return true
		}
	}

	return false
}

func shouldExclude(cmd *cobra.Command, opts Options) bool {
	if cmd.Hidden && !opts.IncludeHidden {
		return true
	}

	return slices.Contains(opts.ExcludeCommands, cmd.CommandPath())
}

func isRunnableCommand(cmd *cobra.Command) bool {
	if cmd.Run == nil && cmd.RunE == nil {
		return false
	}

	if len(cmd.Commands()) > 0 && cmd.RunE != nil {
		hasNonHelpFlags := false

		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Name != helpFlagName {
				hasNonHelpFlags = true
			}
		})

		if !hasNonHelpFlags {
			return false
		}
	}

	return true
}

func stripRootCommand(commandPath string) string {
	parts := strings.Fields(commandPath)
	if len(parts) <= 1 {
		return commandPath
	}

	return strings.Join(parts[1:], " ")
}

func commandToToolDefinition(cmd *cobra.Command) ToolDefinition {
	cmdPath := cmd.CommandPath()
	toolName := strings.ReplaceAll(stripRootCommand(cmdPath), " ", "_")

	description := cmd.Short
	if cmd.Annotations != nil && cmd.Annotations[AnnotationDescription] != "" {
		description = cmd.Annotations[AnnotationDescription]
	}

	permission := ReadOnly
	if cmd.Annotations != nil {
		if p, ok := cmd.Annotations[AnnotationPermission]; ok && p != "" {
			permission = Permission(p)
		}
	}

	return ToolDefinition{
		Name:        toolName,
		Description: description,
		Schema:      buildParameterSchema(cmd),
		Permission:  permission,
	}
}
