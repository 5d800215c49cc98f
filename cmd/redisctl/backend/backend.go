// Package backend resolves the profile, credentials, and resilience
// policy a command needs into a ready-to-use REST client or data-plane
// runner, shared by apicmd, cloudcmd, enterprisecmd, dbcmd, and
// fileskeycmd so each package doesn't repeat the same wiring.
package backend

import (
	"sync"

	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/credential"
	"github.com/redis-developer/redisctl/pkg/di"
	"github.com/redis-developer/redisctl/pkg/httpclient"
	"github.com/redis-developer/redisctl/pkg/profile"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/resilience"
)

// Context bundles the resolved profile and an authenticated REST client
// for one invocation.
type Context struct {
	ProfileName string
	Profile     config.Profile
	Client      *httpclient.Client
}

// coreRuntime is resolved once per process and reused for the lifetime of
// the invocation: long-lived callers (the MCP server dispatching many tool
// calls against the same flags) get one shared credential.Store instead of
// reconstructing a keyring backend handle on every resolve. Configuration
// is deliberately NOT resolved through this runtime: profile/files-key
// commands mutate the config file out-of-band via config.Save, and a
// cached *config.Config would go stale the moment that happens within a
// single long-lived process, so every resolve still loads it fresh.
var (
	coreRuntimeOnce sync.Once
	coreRuntime     *di.Runtime
	coreRuntimeErr  error
)

func runtime(flags *rootflags.Flags) (*di.Runtime, error) {
	coreRuntimeOnce.Do(func() {
		coreRuntime = di.NewRuntime()
		coreRuntimeErr = coreRuntime.Apply(di.CoreModule(di.InvocationFlags{
			ConfigFilePath: flags.ConfigFile,
			ProfileName:    flags.Profile,
		}))
	})

	return coreRuntime, coreRuntimeErr
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

func credentialStore(flags *rootflags.Flags) (*credential.Store, error) {
	rt, err := runtime(flags)
	if err != nil {
		return nil, err
	}

	return di.Invoke[*credential.Store](rt.Injector())
}

func policyFor(flags *rootflags.Flags, p config.Profile) resilience.Policy {
	retries := flags.RetryAttempts

	var timeoutSecs, breakerThreshold, breakerCooldownSecs int

	if p.Resilience != nil {
		if retries == 0 {
			retries = p.Resilience.Retries
		}

		timeoutSecs = p.Resilience.TimeoutSecs
		breakerThreshold = p.Resilience.BreakerThreshold
		breakerCooldownSecs = p.Resilience.BreakerCooldownS
	}

	policy := resilience.Resolve(retries, timeoutSecs, breakerThreshold, breakerCooldownSecs, flags.ResilienceOverrides())

	if flags.RateLimit > 0 && !flags.NoResilience {
		policy.RateLimitPerSecond = flags.RateLimit
	}

	return policy
}

// ResolveCloud resolves the Cloud profile to use (explicit or default)
// and builds an authenticated client for it.
func ResolveCloud(flags *rootflags.Flags) (*Context, error) {
	_, cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	name, err := profile.Resolve(cfg, config.Cloud, flags.Profile)
	if err != nil {
		return nil, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, rctlerr.ProfileNotFound{Name: name}
	}

	return contextFor(flags, name, p)
}

// ResolveEnterprise resolves the Enterprise profile to use and builds an
// authenticated client for it.
func ResolveEnterprise(flags *rootflags.Flags) (*Context, error) {
	_, cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	name, err := profile.Resolve(cfg, config.Enterprise, flags.Profile)
	if err != nil {
		return nil, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, rctlerr.ProfileNotFound{Name: name}
	}

	return contextFor(flags, name, p)
}

// ResolveShared infers the deployment type (Cloud or Enterprise) from an
// explicit profile or the configured profile inventory, then builds a
// client for whichever backend that resolves to.
func ResolveShared(flags *rootflags.Flags) (*Context, error) {
	_, cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	kind, err := profile.ResolveDeployment(cfg, flags.Profile)
	if err != nil {
		return nil, err
	}

	name, err := profile.Resolve(cfg, kind, flags.Profile)
	if err != nil {
		return nil, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return nil, rctlerr.ProfileNotFound{Name: name}
	}

	return contextFor(flags, name, p)
}

func contextFor(flags *rootflags.Flags, name string, p config.Profile) (*Context, error) {
	store, err := credentialStore(flags)
	if err != nil {
		return nil, err
	}

	policy := policyFor(flags, p)

	switch p.DeploymentType {
	case config.Cloud:
		apiKey, err := store.Get(p.APIKey, "REDIS_CLOUD_API_KEY")
		if err != nil {
			return nil, err
		}

		apiSecret, err := store.Get(p.APISecret, "REDIS_CLOUD_API_SECRET")
		if err != nil {
			return nil, err
		}

		baseURL := p.APIURL
		if baseURL == "" {
			baseURL = config.DefaultCloudURL
		}

		auth := httpclient.CloudAuth{APIKey: apiKey, APISecret: apiSecret}

		return &Context{ProfileName: name, Profile: p, Client: httpclient.New(baseURL, auth, policy)}, nil

	case config.Enterprise:
		password, err := store.Get(p.Password, "REDIS_ENTERPRISE_PASSWORD")
		if err != nil {
			return nil, err
		}

		auth := httpclient.EnterpriseAuth{Username: p.Username, Password: password}

		return &Context{ProfileName: name, Profile: p, Client: httpclient.New(p.URL, auth, policy)}, nil

	default:
		return nil, rctlerr.InvalidInput{Field: "deployment_type", Reason: "profile is not a REST backend"}
	}
}

// ResolveDatabase resolves the Database profile to use for a data-plane
// command. When explicitURL is set it is returned as-is with an empty
// profile; otherwise the URL is empty and the resolved profile is
// returned with its password reference already resolved.
func ResolveDatabase(flags *rootflags.Flags, explicitURL string) (string, config.Profile, error) {
	_, cfg, err := loadConfig(flags)
	if err != nil {
		return "", config.Profile{}, err
	}

	if explicitURL != "" {
		return explicitURL, config.Profile{}, nil
	}

	name, err := profile.Resolve(cfg, config.Database, flags.Profile)
	if err != nil {
		return "", config.Profile{}, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return "", config.Profile{}, rctlerr.ProfileNotFound{Name: name}
	}

	store, err := credentialStore(flags)
	if err != nil {
		return "", config.Profile{}, err
	}

	if p.HasPassword() {
		password, err := store.Get(p.Password, "REDIS_PASSWORD")
		if err != nil {
			return "", config.Profile{}, err
		}

		p.Password = password
	}

	return "", p, nil
}

// LoadConfig exposes the config-loading helper to sibling packages that
// need the raw configuration (fileskeycmd reading/writing files_api_key).
func LoadConfig(flags *rootflags.Flags) (string, *config.Config, error) {
	return loadConfig(flags)
}
