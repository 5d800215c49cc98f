package di

import (
	"github.com/redis-developer/redisctl/pkg/credential"
)

// InvocationFlags carries the global flag values that shape how the
// credential singleton is constructed for one command invocation.
type InvocationFlags struct {
	ConfigFilePath string
	ProfileName    string
}

// CoreModule registers the credential store singleton shared by every
// command in the tree for the lifetime of one process. Configuration is
// deliberately not provided here: profile and files-key commands mutate
// the config file out-of-band via config.Save, and a cached *config.Config
// would go stale the moment that happens within a long-lived process (the
// MCP server dispatching many tool calls), so every caller loads it fresh.
func CoreModule(flags InvocationFlags) Module {
	return func(injector Injector) error {
		ProvideValue(injector, flags)

		Provide(injector, func(Injector) (*credential.Store, error) {
			return credential.New(), nil
		})

		return nil
	}
}
