// Package fileskeycmd implements "files-key": viewing and setting the
// files_api_key credential reference, either globally or as a per-profile
// override (§3 Configuration / Profile).
package fileskeycmd

import (
	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/credential"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

func saveConfig(path string, cfg *config.Config) error {
	return config.Save(path, cfg)
}

// New builds the "files-key" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files-key",
		Aliases: []string{"fk"},
		Short:   "View or set the files API key used for bulk import/export",
	}

	cmd.AddCommand(newShowCmd(flags), newSetCmd(flags))

	return cmd
}

func newShowCmd(flags *rootflags.Flags) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved files API key reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := backend.LoadConfig(flags)
			if err != nil {
				return err
			}

			reference := cfg.FilesAPIKey

			if profileName != "" {
				p, ok := cfg.Profiles[profileName]
				if !ok {
					return rctlerr.ProfileNotFound{Name: profileName}
				}

				if p.FilesAPIKey != "" {
					reference = p.FilesAPIKey
				}
			}

			if reference == "" {
				cmd.Println("(not set)")

				return nil
			}

			store := credential.New()

			value, err := store.Get(reference, "REDIS_FILES_API_KEY")
			if err != nil {
				return err
			}

			cmd.Println(value)

			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile-override", "", "show the per-profile override instead of the global key")

	return cmd
}

func newSetCmd(flags *rootflags.Flags) *cobra.Command {
	var (
		profileName string
		useKeyring  bool
	)

	cmd := &cobra.Command{
		Use:   "set <value>",
		Short: "Set the files API key, globally or for one profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, cfg, err := backend.LoadConfig(flags)
			if err != nil {
				return err
			}

			reference := args[0]

			if useKeyring {
				store := credential.New()

				reference, err = store.Store("files-api-key", args[0])
				if err != nil {
					return err
				}
			}

			if profileName == "" {
				cfg.FilesAPIKey = reference

				return saveConfig(path, cfg)
			}

			p, ok := cfg.Profiles[profileName]
			if !ok {
				return rctlerr.ProfileNotFound{Name: profileName}
			}

			p.FilesAPIKey = reference
			cfg.Profiles[profileName] = p

			return saveConfig(path, cfg)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile-override", "", "set the per-profile override instead of the global key")
	cmd.Flags().BoolVar(&useKeyring, "use-keyring", false, "store the value in the OS keyring instead of the config file")

	return cmd
}
