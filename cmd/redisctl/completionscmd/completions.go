// Package completionscmd implements "completions": generating shell
// completion scripts via cobra's built-in generators. It belongs to the
// Passthrough command set (§4.4) and is never rewritten by the prefix
// injector.
package completionscmd

import (
	"github.com/spf13/cobra"
)

// New builds the "completions" command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completions [bash|zsh|fish|powershell]",
		Aliases:   []string{"comp"},
		Short:     "Generate a shell completion script",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return nil
			}
		},
	}

	return cmd
}
