// Package cloudcmd implements the "cloud" command tree: the Cloud-only
// resources (subscription, account, task, provider-account,
// fixed-database) plus the shared resources mounted against the Cloud
// backend.
package cloudcmd

import (
	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/cmd/redisctl/restcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/sharedcmd"
)

func resolve(flags *rootflags.Flags) (*backend.Context, error) {
	return backend.ResolveCloud(flags)
}

func taskPath(id string) string { return "/tasks/" + id }

// New builds the "cloud" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cloud",
		Aliases: []string{"cl"},
		Short:   "Manage Redis Cloud resources",
	}

	cmd.AddCommand(
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "subscription",
			Short:      "Manage Cloud subscriptions",
			Collection: "/subscriptions",
			Item:       func(id string) string { return "/subscriptions/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "account",
			Short:      "View Cloud account information",
			Collection: "/",
			Item:       func(id string) string { return "/accounts/" + id },
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "task",
			Short:      "Inspect Cloud async tasks",
			Collection: "/tasks",
			Item:       func(id string) string { return "/tasks/" + id },
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "provider-account",
			Short:      "Manage cloud provider accounts",
			Collection: "/cloud-accounts",
			Item:       func(id string) string { return "/cloud-accounts/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "fixed-database",
			Short:      "Manage Essentials (fixed) databases",
			Collection: "/fixed/databases",
			Item:       func(id string) string { return "/fixed/databases/" + id },
			TaskPath:   taskPath,
		}),
	)

	cmd.AddCommand(sharedcmd.New(flags, resolve, taskPath)...)

	return cmd
}
