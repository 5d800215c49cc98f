// Package redisctl assembles the cobra command tree: global flags, the
// cloud/enterprise/profile/api/db/files-key/version/completions/mcp
// subtrees, and the usage-error classification main.go relies on to pick
// an exit code.
package redisctl

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redis-developer/redisctl/cmd/redisctl/apicmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/cloudcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/completionscmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/dbcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/enterprisecmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/fileskeycmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/mcpcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/profilecmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/errorhandler"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// NewRootCmd builds the root command and its full subtree.
func NewRootCmd(version, commit, date string) *cobra.Command {
	flags := rootflags.New()

	root := &cobra.Command{
		Use:           "redisctl",
		Short:         "Unified controller for Redis Cloud, Enterprise, and direct database connections",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.CompletionOptions.DisableDefaultCmd = true

	root.SetVersionTemplate(versionTemplate(version, commit, date))

	flags.Register(root.PersistentFlags())

	env := viper.New()
	flags.BindEnv(env, root.PersistentFlags())

	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		flags.ApplyEnv(env)

		return nil
	}

	root.AddCommand(
		cloudcmd.New(flags),
		enterprisecmd.New(flags),
		profilecmd.New(flags),
		apicmd.New(flags),
		dbcmd.New(flags),
		fileskeycmd.New(flags),
		mcpcmd.New(flags),
		completionscmd.New(),
		newVersionCmd(version, commit, date),
	)

	return root
}

func versionTemplate(version, commit, date string) string {
	return "redisctl " + version + " (" + commit + ", " + date + ")\n"
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the redisctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(versionTemplate(version, commit, date))

			return nil
		},
	}
}

// Execute runs root through the error-normalizing executor and classifies
// the result: cobra's own usage complaints (unknown command/flag, wrong
// argument count) become rctlerr.UsageError so main.go can exit 2.
func Execute(root *cobra.Command) error {
	err := errorhandler.NewExecutor().Execute(root)
	if err == nil {
		return nil
	}

	if looksLikeUsageError(err.Error()) {
		return rctlerr.UsageError{Message: err.Error()}
	}

	return err
}

var usageErrorMarkers = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"requires at least",
	"accepts at most",
	"accepts between",
	"arg(s), received",
	"flag needs an argument",
	"invalid argument",
}

func looksLikeUsageError(message string) bool {
	lower := strings.ToLower(message)

	for _, marker := range usageErrorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
