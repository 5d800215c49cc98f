// Package dbcmd implements direct data-plane commands against a single
// Redis database: get/set/del, container reads, and cursor-based scan,
// wired to pkg/dataplane and gated by the global write-permission model.
package dbcmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/dataplane"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/render"
)

// New builds the "db" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "db",
		Aliases: []string{"database"},
		Short:   "Issue direct commands against a Redis database",
	}

	cmd.PersistentFlags().String("url", "", "explicit redis[s]:// connection URL (overrides the resolved profile)")
	cmd.PersistentFlags().Bool("allow-writes", false, "permit mutating commands (set, del) against this database")

	cmd.AddCommand(
		newGetCmd(flags, cmd),
		newSetCmd(flags, cmd),
		newDelCmd(flags, cmd),
		newHGetAllCmd(flags, cmd),
		newLRangeCmd(flags, cmd),
		newSMembersCmd(flags, cmd),
		newZRangeCmd(flags, cmd),
		newScanCmd(flags, cmd),
	)

	return cmd
}

func openRunner(flags *rootflags.Flags, parent *cobra.Command) (*dataplane.Runner, error) {
	explicitURL, _ := parent.PersistentFlags().GetString("url")
	allowWrites, _ := parent.PersistentFlags().GetBool("allow-writes")

	url, p, err := backend.ResolveDatabase(flags, explicitURL)
	if err != nil {
		return nil, err
	}

	if url == "" {
		url = dataplane.BuildURL("", p)
	}

	return dataplane.Open(url, allowWrites)
}

func newGetCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a string key's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			value, err := runner.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cmd.Println(value)

			return nil
		},
	}
}

func newSetCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a string key's value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			return runner.Set(cmd.Context(), args[0], args[1])
		},
	}
}

func newDelCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "del <key> [key...]",
		Short: "Delete one or more keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			count, err := runner.Delete(cmd.Context(), args...)
			if err != nil {
				return err
			}

			cmd.Println(count)

			return nil
		},
	}
}

func newHGetAllCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "hgetall <key>",
		Short: "Get every field/value pair of a hash key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			values, err := runner.HGetAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return render.Render(cmd.OutOrStdout(), values, flags.OutputFormat(), flags.Query)
		},
	}
}

func newLRangeCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "lrange <key> <start> <stop>",
		Short: "Get a range of a list key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}

			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			values, err := runner.LRange(cmd.Context(), args[0], start, stop)
			if err != nil {
				return err
			}

			return render.Render(cmd.OutOrStdout(), values, flags.OutputFormat(), flags.Query)
		},
	}
}

func newSMembersCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "smembers <key>",
		Short: "Get every member of a set key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			values, err := runner.SMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return render.Render(cmd.OutOrStdout(), values, flags.OutputFormat(), flags.Query)
		},
	}
}

func newZRangeCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "zrange <key> <start> <stop>",
		Short: "Get a range of a sorted-set key with scores",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, stop, err := parseRange(args[1], args[2])
			if err != nil {
				return err
			}

			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			values, err := runner.ZRangeWithScores(cmd.Context(), args[0], start, stop)
			if err != nil {
				return err
			}

			return render.Render(cmd.OutOrStdout(), values, flags.OutputFormat(), flags.Query)
		},
	}
}

func newScanCmd(flags *rootflags.Flags, parent *cobra.Command) *cobra.Command {
	var (
		match string
		typ   string
		limit int64
		cursor uint64
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan keys by cursor, optionally filtered by type (never blocks with KEYS)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := openRunner(flags, parent)
			if err != nil {
				return err
			}
			defer func() { _ = runner.Close() }()

			result, err := runner.Scan(cmd.Context(), cursor, match, typ, limit)
			if err != nil {
				return err
			}

			return render.Render(cmd.OutOrStdout(), result, flags.OutputFormat(), flags.Query)
		},
	}

	cmd.Flags().StringVar(&match, "match", "*", "glob-style key pattern")
	cmd.Flags().StringVar(&typ, "type", "", "restrict to keys of this Redis type")
	cmd.Flags().Int64Var(&limit, "limit", 100, "approximate number of keys per page")
	cmd.Flags().Uint64Var(&cursor, "cursor", 0, "cursor returned by a previous scan page")

	return cmd
}

func parseRange(startStr, stopStr string) (int64, int64, error) {
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, rctlerr.InvalidInput{Field: "start", Reason: err.Error()}
	}

	stop, err := strconv.ParseInt(stopStr, 10, 64)
	if err != nil {
		return 0, 0, rctlerr.InvalidInput{Field: "stop", Reason: err.Error()}
	}

	return start, stop, nil
}
