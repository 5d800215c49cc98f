package profile_test

import (
	"testing"

	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/profile"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCfg() *config.Config {
	return &config.Config{Profiles: map[string]config.Profile{}}
}

func TestResolveExplicitAlwaysWins(t *testing.T) {
	t.Parallel()

	cfg := newCfg()

	name, err := profile.Resolve(cfg, config.Cloud, "whatever-unchecked")
	require.NoError(t, err)
	assert.Equal(t, "whatever-unchecked", name)
}

func TestResolveUsesConfiguredDefault(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.DefaultCloud = "prod"
	cfg.Profiles["prod"] = config.Profile{DeploymentType: config.Cloud}
	cfg.Profiles["aaa-other"] = config.Profile{DeploymentType: config.Cloud}

	name, err := profile.Resolve(cfg, config.Cloud, "")
	require.NoError(t, err)
	assert.Equal(t, "prod", name)
}

func TestResolveFallsBackToFirstOfType(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["zzz"] = config.Profile{DeploymentType: config.Cloud}
	cfg.Profiles["aaa"] = config.Profile{DeploymentType: config.Cloud}

	name, err := profile.Resolve(cfg, config.Cloud, "")
	require.NoError(t, err)
	assert.Equal(t, "aaa", name)
}

func TestResolveNoProfilesOfType(t *testing.T) {
	t.Parallel()

	cfg := newCfg()

	_, err := profile.Resolve(cfg, config.Cloud, "")
	require.Error(t, err)

	var noProfiles rctlerr.NoProfilesOfType
	require.ErrorAs(t, err, &noProfiles)
	assert.Equal(t, "cloud", noProfiles.Kind)
}

func TestResolveNoProfilesOfTypeListsOtherTypes(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["prod-ent"] = config.Profile{DeploymentType: config.Enterprise}
	cfg.Profiles["cache"] = config.Profile{DeploymentType: config.Database}

	_, err := profile.Resolve(cfg, config.Cloud, "")
	require.Error(t, err)

	var noProfiles rctlerr.NoProfilesOfType
	require.ErrorAs(t, err, &noProfiles)
	assert.Equal(t, []string{"cache", "prod-ent"}, noProfiles.OtherProfiles)
	assert.Contains(t, noProfiles.Suggest(), "cache")
	assert.Contains(t, noProfiles.Suggest(), "prod-ent")
}

func TestResolveDeploymentExplicitProfile(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["prod"] = config.Profile{DeploymentType: config.Enterprise}

	kind, err := profile.ResolveDeployment(cfg, "prod")
	require.NoError(t, err)
	assert.Equal(t, config.Enterprise, kind)
}

func TestResolveDeploymentExplicitProfileNotFound(t *testing.T) {
	t.Parallel()

	cfg := newCfg()

	_, err := profile.ResolveDeployment(cfg, "missing")
	require.Error(t, err)

	var notFound rctlerr.ProfileNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestResolveDeploymentSingleKind(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["prod"] = config.Profile{DeploymentType: config.Cloud}

	kind, err := profile.ResolveDeployment(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.Cloud, kind)
}

func TestResolveDeploymentAmbiguous(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["c"] = config.Profile{DeploymentType: config.Cloud}
	cfg.Profiles["e"] = config.Profile{DeploymentType: config.Enterprise}

	_, err := profile.ResolveDeployment(cfg, "")
	require.Error(t, err)

	var ambiguous rctlerr.AmbiguousDeployment
	require.ErrorAs(t, err, &ambiguous)
}

func TestResolveDeploymentDatabaseOnlyIsNone(t *testing.T) {
	t.Parallel()

	cfg := newCfg()
	cfg.Profiles["db1"] = config.Profile{DeploymentType: config.Database}

	_, err := profile.ResolveDeployment(cfg, "")
	require.Error(t, err)

	var noProfiles rctlerr.NoProfilesOfType
	require.ErrorAs(t, err, &noProfiles)
}
