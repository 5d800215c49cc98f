package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
}

func TestLoadParseFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "this is not [ valid toml")

	_, err := config.Load(path)
	require.Error(t, err)

	var parseErr rctlerr.ConfigParse
	require.ErrorAs(t, err, &parseErr)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := &config.Config{
		DefaultCloud: "prod",
		Profiles: map[string]config.Profile{
			"prod": {
				DeploymentType: config.Cloud,
				APIKey:         "k",
				APISecret:      "s",
			},
		},
	}

	err := config.Save(path, cfg)
	require.NoError(t, err)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", loaded.DefaultCloud)
	assert.Equal(t, config.Cloud, loaded.Profiles["prod"].DeploymentType)
	assert.Equal(t, "k", loaded.Profiles["prod"].APIKey)
}

func TestEnvExpansionLeavesUnsetVarsWithoutDefaultVerbatim(t *testing.T) {
	t.Setenv("REDISCTL_TEST_VAR", "resolved")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
default_cloud = "prod"

[profiles.prod]
deployment_type = "cloud"
api_key = "${REDISCTL_TEST_VAR}"
api_secret = "${REDISCTL_UNSET_NO_DEFAULT}"
api_url = "${REDISCTL_UNSET_WITH_DEFAULT:-https://fallback.example.com}"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	profile := cfg.Profiles["prod"]
	assert.Equal(t, "resolved", profile.APIKey)
	assert.Equal(t, "${REDISCTL_UNSET_NO_DEFAULT}", profile.APISecret)
	assert.Equal(t, "https://fallback.example.com", profile.APIURL)
}

func TestLoadAppliesDatabaseDefaultsWhenFieldsAreAbsent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[profiles.cache]
deployment_type = "database"
host = "localhost"
port = 6379
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	profile := cfg.Profiles["cache"]
	assert.True(t, profile.TLS, "tls must default to true when absent from the TOML")
	assert.Equal(t, "default", profile.Username, `username must default to "default" when absent`)
}

func TestLoadHonorsExplicitDatabaseTLSFalse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[profiles.cache]
deployment_type = "database"
host = "localhost"
port = 6379
tls = false
username = "app-user"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	profile := cfg.Profiles["cache"]
	assert.False(t, profile.TLS, "an explicit tls = false must be honored, not overridden by the default")
	assert.Equal(t, "app-user", profile.Username)
}

func TestLoadDoesNotDefaultUsernameForEnterpriseProfiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[profiles.prod]
deployment_type = "enterprise"
url = "https://cluster.example.com"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Profiles["prod"].Username, `"default" is a Database-only default, not Enterprise`)
}

func TestFirstOfTypeIsLexicographicallySmallest(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Profiles: map[string]config.Profile{
			"zzz-cloud": {DeploymentType: config.Cloud},
			"aaa-cloud": {DeploymentType: config.Cloud},
			"only-ent":  {DeploymentType: config.Enterprise},
		},
	}

	name, ok := cfg.FirstOfType(config.Cloud)
	require.True(t, ok)
	assert.Equal(t, "aaa-cloud", name)

	_, ok = cfg.FirstOfType(config.Database)
	assert.False(t, ok)
}

func TestRemoveProfileClearsDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DefaultCloud: "prod",
		Profiles: map[string]config.Profile{
			"prod": {DeploymentType: config.Cloud},
		},
	}

	cfg.RemoveProfile("prod")

	assert.Empty(t, cfg.DefaultCloud)
	assert.NotContains(t, cfg.Profiles, "prod")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o700)
	require.NoError(t, err)

	err = os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
}
