// Package enterprisecmd implements the "enterprise" command tree: the
// Enterprise-only resources (cluster, node, shard, module, license) plus
// the shared resources mounted against the Enterprise backend.
package enterprisecmd

import (
	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/cmd/redisctl/restcmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/sharedcmd"
)

func resolve(flags *rootflags.Flags) (*backend.Context, error) {
	return backend.ResolveEnterprise(flags)
}

func taskPath(id string) string { return "/actions/" + id }

// New builds the "enterprise" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enterprise",
		Aliases: []string{"ent", "en"},
		Short:   "Manage Redis Enterprise cluster resources",
	}

	cmd.AddCommand(
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "cluster",
			Short:      "View and configure the cluster",
			Collection: "/cluster",
			Item:       func(string) string { return "/cluster" },
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "node",
			Short:      "Manage cluster nodes",
			Collection: "/nodes",
			Item:       func(id string) string { return "/nodes/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "shard",
			Short:      "Inspect database shards",
			Collection: "/shards",
			Item:       func(id string) string { return "/shards/" + id },
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "module",
			Short:      "Manage installed modules",
			Collection: "/modules",
			Item:       func(id string) string { return "/modules/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "license",
			Short:      "View and update the cluster license",
			Collection: "/license",
			Item:       func(string) string { return "/license" },
		}),
	)

	cmd.AddCommand(sharedcmd.New(flags, resolve, taskPath)...)

	return cmd
}
