// Package sharedcmd builds the resource command groups present under both
// backends (database, user, acl, workflow), parameterized by the resolver
// the owning command tree (cloudcmd or enterprisecmd) supplies.
package sharedcmd

import (
	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/cmd/redisctl/restcmd"
)

// New returns the shared resource commands (database, user, acl,
// workflow) bound to resolve, for mounting under a specific backend.
func New(flags *rootflags.Flags, resolve restcmd.Resolver, taskPath func(id string) string) []*cobra.Command {
	return []*cobra.Command{
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "database",
			Short:      "Manage databases",
			Collection: "/databases",
			Item:       func(id string) string { return "/databases/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "user",
			Short:      "Manage users",
			Collection: "/users",
			Item:       func(id string) string { return "/users/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "acl",
			Short:      "Manage ACLs",
			Collection: "/acls",
			Item:       func(id string) string { return "/acls/" + id },
			TaskPath:   taskPath,
		}),
		restcmd.New(flags, resolve, restcmd.Resource{
			Name:       "workflow",
			Short:      "Inspect async workflow tasks",
			Collection: "/tasks",
			Item:       func(id string) string { return "/tasks/" + id },
			TaskPath:   taskPath,
		}),
	}
}
