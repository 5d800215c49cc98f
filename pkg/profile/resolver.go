// Package profile implements the profile resolver (§4.3): turning an
// optional explicit profile name, plus the configuration store's defaults
// and profile inventory, into a concrete profile name or deployment type.
package profile

import (
	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// Resolve returns the profile name to use for backend kind, given an
// optional explicit override.
//
//  1. explicit, if set, is returned unchanged — a downstream lookup may
//     still fail if the name doesn't exist.
//  2. Else the configured default for kind, if set.
//  3. Else the lexicographically first profile of kind.
//  4. Else NoProfilesOfType, listing profiles of other kinds as guidance.
func Resolve(cfg *config.Config, kind config.DeploymentType, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if def := defaultFor(cfg, kind); def != "" {
		return def, nil
	}

	if name, ok := cfg.FirstOfType(kind); ok {
		return name, nil
	}

	return "", rctlerr.NoProfilesOfType{Kind: string(kind), OtherProfiles: otherProfiles(cfg, kind)}
}

// otherProfiles lists every configured profile whose DeploymentType is not
// kind, in lexicographic order, for NoProfilesOfType's suggestion.
func otherProfiles(cfg *config.Config, kind config.DeploymentType) []string {
	var names []string

	for _, name := range cfg.ProfileNames() {
		if cfg.Profiles[name].DeploymentType != kind {
			names = append(names, name)
		}
	}

	return names
}

func defaultFor(cfg *config.Config, kind config.DeploymentType) string {
	switch kind {
	case config.Cloud:
		return cfg.DefaultCloud
	case config.Enterprise:
		return cfg.DefaultEnterprise
	case config.Database:
		return cfg.DefaultDatabase
	default:
		return ""
	}
}

// ResolveDeployment infers the target backend for a shared command
// invoked without an explicit backend prefix.
//
//   - An explicit profile name is looked up directly; its deployment type
//     is returned, or ProfileNotFound if it doesn't exist.
//   - Otherwise only Cloud and Enterprise profiles are considered (Database
//     is excluded; shared commands never apply to the data plane): exactly
//     one kind present resolves to that kind; both present is
//     AmbiguousDeployment; neither is NoProfilesOfType.
func ResolveDeployment(cfg *config.Config, explicit string) (config.DeploymentType, error) {
	if explicit != "" {
		p, ok := cfg.Profiles[explicit]
		if !ok {
			return "", rctlerr.ProfileNotFound{Name: explicit}
		}

		return p.DeploymentType, nil
	}

	hasCloud := len(cfg.NamesOfType(config.Cloud)) > 0
	hasEnterprise := len(cfg.NamesOfType(config.Enterprise)) > 0

	switch {
	case hasCloud && hasEnterprise:
		return "", rctlerr.AmbiguousDeployment{Candidates: []string{"cloud", "enterprise"}}
	case hasCloud:
		return config.Cloud, nil
	case hasEnterprise:
		return config.Enterprise, nil
	default:
		return "", rctlerr.NoProfilesOfType{Kind: "cloud or enterprise", OtherProfiles: cfg.NamesOfType(config.Database)}
	}
}
