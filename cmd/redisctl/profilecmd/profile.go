// Package profilecmd implements the "profile" command family: list, show,
// set, remove, default-cloud/enterprise/database, and validate, grounded
// on the original profile management commands this controller replaces.
package profilecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/credential"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/render"
)

// New builds the "profile" command tree.
func New(flags *rootflags.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"prof", "pr"},
		Short:   "Manage connection profiles",
	}

	cmd.AddCommand(
		newListCmd(flags),
		newPathCmd(flags),
		newShowCmd(flags),
		newSetCmd(flags),
		newRemoveCmd(flags),
		newDefaultCmd(flags, "default-cloud", config.Cloud),
		newDefaultCmd(flags, "default-enterprise", config.Enterprise),
		newDefaultCmd(flags, "default-database", config.Database),
		newValidateCmd(flags),
	)

	return cmd
}

func loadConfig(flags *rootflags.Flags) (string, *config.Config, error) {
	path := flags.ConfigFile

	var err error

	if path == "" {
		path, err = config.Path()
		if err != nil {
			return "", nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", nil, err
	}

	return path, cfg, nil
}

func newListCmd(flags *rootflags.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			type entry struct {
				Name              string `json:"name"`
				DeploymentType    string `json:"deployment_type"`
				IsDefaultCloud    bool   `json:"is_default_cloud"`
				IsDefaultEnterprise bool `json:"is_default_enterprise"`
				IsDefaultDatabase bool   `json:"is_default_database"`
			}

			entries := make([]entry, 0, len(cfg.Profiles))

			for _, name := range cfg.ProfileNames() {
				p := cfg.Profiles[name]
				entries = append(entries, entry{
					Name:                name,
					DeploymentType:      string(p.DeploymentType),
					IsDefaultCloud:      cfg.DefaultCloud == name,
					IsDefaultEnterprise: cfg.DefaultEnterprise == name,
					IsDefaultDatabase:   cfg.DefaultDatabase == name,
				})
			}

			cmd.Printf("Configuration file: %s\n\n", path)

			return render.Render(cmd.OutOrStdout(), entries, flags.OutputFormat(), flags.Query)
		},
	}
}

func newPathCmd(flags *rootflags.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _, err := loadConfig(flags)
			if err != nil {
				return err
			}

			cmd.Println(path)

			return nil
		},
	}
}

func newShowCmd(flags *rootflags.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one profile's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			p, ok := cfg.Profiles[args[0]]
			if !ok {
				return rctlerr.ProfileNotFound{Name: args[0]}
			}

			return render.Render(cmd.OutOrStdout(), p, flags.OutputFormat(), flags.Query)
		},
	}
}

type setOptions struct {
	deploymentType string
	apiKey         string
	apiSecret      string
	apiURL         string
	url            string
	username       string
	password       string
	insecure       bool
	caCert         string
	host           string
	port           int
	noTLS          bool
	db             int
	useKeyring     bool
}

func newSetCmd(flags *rootflags.Flags) *cobra.Command {
	opts := &setOptions{}

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(flags, opts, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.deploymentType, "type", "", "deployment_type: cloud|enterprise|database")
	fs.StringVar(&opts.apiKey, "api-key", "", "Cloud API key")
	fs.StringVar(&opts.apiSecret, "api-secret", "", "Cloud API secret")
	fs.StringVar(&opts.apiURL, "api-url", "", "Cloud API base URL")
	fs.StringVar(&opts.url, "url", "", "Enterprise cluster URL")
	fs.StringVar(&opts.username, "username", "", "Enterprise or Database username")
	fs.StringVar(&opts.password, "password", "", "Enterprise or Database password")
	fs.BoolVar(&opts.insecure, "insecure", false, "disable TLS verification (Enterprise)")
	fs.StringVar(&opts.caCert, "ca-cert", "", "path to an additional CA cert (Enterprise)")
	fs.StringVar(&opts.host, "host", "", "Database host")
	fs.IntVar(&opts.port, "port", 6379, "Database port")
	fs.BoolVar(&opts.noTLS, "no-tls", false, "disable TLS (Database)")
	fs.IntVar(&opts.db, "db", 0, "Database index")
	fs.BoolVar(&opts.useKeyring, "use-keyring", false, "store secrets in the OS keyring instead of the config file")

	return cmd
}

func runSet(flags *rootflags.Flags, opts *setOptions, name string) error {
	path, cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	deploymentType := config.DeploymentType(opts.deploymentType)
	if existing, ok := cfg.Profiles[name]; ok && deploymentType == "" {
		deploymentType = existing.DeploymentType
	}

	if deploymentType == "" {
		return rctlerr.InvalidInput{Field: "type", Reason: "required for a new profile"}
	}

	store := credential.New()

	profile := config.Profile{DeploymentType: deploymentType}

	switch deploymentType {
	case config.Cloud:
		profile.APIKey, err = maybeKeyring(store, opts.useKeyring, name+"-api-key", opts.apiKey)
		if err != nil {
			return err
		}

		profile.APISecret, err = maybeKeyring(store, opts.useKeyring, name+"-api-secret", opts.apiSecret)
		if err != nil {
			return err
		}

		profile.APIURL = opts.apiURL
		if profile.APIURL == "" {
			profile.APIURL = config.DefaultCloudURL
		}

	case config.Enterprise:
		profile.URL = opts.url
		profile.Username = opts.username
		profile.Insecure = opts.insecure
		profile.CACert = opts.caCert

		if opts.password != "" {
			profile.Password, err = maybeKeyring(store, opts.useKeyring, name+"-password", opts.password)
			if err != nil {
				return err
			}
		}

	case config.Database:
		profile.Host = opts.host
		profile.Port = opts.port
		profile.TLS = !opts.noTLS
		profile.Username = opts.username
		if profile.Username == "" {
			profile.Username = "default"
		}

		profile.Database = opts.db

		if opts.password != "" {
			profile.Password, err = maybeKeyring(store, opts.useKeyring, name+"-password", opts.password)
			if err != nil {
				return err
			}
		}

	default:
		return rctlerr.InvalidInput{Field: "type", Reason: fmt.Sprintf("unknown deployment type %q", opts.deploymentType)}
	}

	cfg.Profiles[name] = profile

	return config.Save(path, cfg)
}

func maybeKeyring(store *credential.Store, useKeyring bool, secretName, value string) (string, error) {
	if value == "" || !useKeyring {
		return value, nil
	}

	return store.Store(secretName, value)
}

func newRemoveCmd(flags *rootflags.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			if _, ok := cfg.Profiles[args[0]]; !ok {
				return rctlerr.ProfileNotFound{Name: args[0]}
			}

			cfg.RemoveProfile(args[0])

			return config.Save(path, cfg)
		},
	}
}

func newDefaultCmd(flags *rootflags.Flags, use string, kind config.DeploymentType) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: fmt.Sprintf("Set the default %s profile", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			profile, ok := cfg.Profiles[args[0]]
			if !ok {
				return rctlerr.ProfileNotFound{Name: args[0]}
			}

			if profile.DeploymentType != kind {
				return rctlerr.InvalidInput{
					Field:  "name",
					Reason: fmt.Sprintf("profile %q is type %s, not %s", args[0], profile.DeploymentType, kind),
				}
			}

			switch kind {
			case config.Cloud:
				cfg.DefaultCloud = args[0]
			case config.Enterprise:
				cfg.DefaultEnterprise = args[0]
			case config.Database:
				cfg.DefaultDatabase = args[0]
			}

			return config.Save(path, cfg)
		},
	}
}

func newValidateCmd(flags *rootflags.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every configured profile's credential references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			store := credential.New()

			type result struct {
				Name  string `json:"name"`
				Valid bool   `json:"valid"`
				Error string `json:"error,omitempty"`
			}

			var results []result

			for _, name := range cfg.ProfileNames() {
				err := validateProfile(store, cfg.Profiles[name])
				r := result{Name: name, Valid: err == nil}

				if err != nil {
					r.Error = err.Error()
				}

				results = append(results, r)
			}

			return render.Render(cmd.OutOrStdout(), results, flags.OutputFormat(), flags.Query)
		},
	}
}

func validateProfile(store *credential.Store, p config.Profile) error {
	switch p.DeploymentType {
	case config.Cloud:
		if _, err := store.Get(p.APIKey, "REDIS_CLOUD_API_KEY"); err != nil {
			return err
		}

		_, err := store.Get(p.APISecret, "REDIS_CLOUD_API_SECRET")

		return err

	case config.Enterprise:
		if p.Password == "" {
			return nil
		}

		_, err := store.Get(p.Password, "REDIS_ENTERPRISE_PASSWORD")

		return err

	case config.Database:
		if p.Password == "" {
			return nil
		}

		_, err := store.Get(p.Password, "REDIS_PASSWORD")

		return err

	default:
		return rctlerr.InvalidInput{Field: "deployment_type", Reason: "unknown"}
	}
}
