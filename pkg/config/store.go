// Package config implements the configuration store: a TOML document of
// named profiles persisted at a platform-specific path, with textual
// environment-variable pre-expansion on load.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// DeploymentType identifies which backend a Profile targets.
type DeploymentType string

const (
	Cloud      DeploymentType = "cloud"
	Enterprise DeploymentType = "enterprise"
	Database   DeploymentType = "database"
)

// Resilience carries optional per-profile resilience knobs (§4.5).
type Resilience struct {
	Retries          int `toml:"retries,omitempty"`
	TimeoutSecs      int `toml:"timeout_secs,omitempty"`
	BreakerThreshold int `toml:"breaker_threshold,omitempty"`
	BreakerCooldownS int `toml:"breaker_cooldown_s,omitempty"`
}

// Profile is one entry in the [profiles.<name>] table.
type Profile struct {
	DeploymentType DeploymentType `toml:"deployment_type"`

	// Cloud variant.
	APIKey    string `toml:"api_key,omitempty"`
	APISecret string `toml:"api_secret,omitempty"`
	APIURL    string `toml:"api_url,omitempty"`

	// Enterprise variant.
	URL      string `toml:"url,omitempty"`
	Username string `toml:"username,omitempty"`
	Password string `toml:"password,omitempty"`
	Insecure bool   `toml:"insecure,omitempty"`
	CACert   string `toml:"ca_cert,omitempty"`

	// Database variant.
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	TLS      bool   `toml:"tls"`
	Database int    `toml:"database,omitempty"`

	FilesAPIKey string      `toml:"files_api_key,omitempty"`
	Resilience  *Resilience `toml:"resilience,omitempty"`
}

// HasPassword reports whether the profile's variant carries a non-empty
// password field.
func (p Profile) HasPassword() bool {
	return p.Password != ""
}

// rawProfile mirrors Profile for decoding, using pointer/optional fields
// for tls and username so Load can tell "absent from the TOML" apart from
// "explicitly set to the zero value" and apply the Database variant's
// documented defaults (tls=true, username="default") only in the former
// case, the way the original config.rs's #[serde(default = ...)] does.
type rawProfile struct {
	DeploymentType DeploymentType `toml:"deployment_type"`

	APIKey    string `toml:"api_key,omitempty"`
	APISecret string `toml:"api_secret,omitempty"`
	APIURL    string `toml:"api_url,omitempty"`

	URL      string `toml:"url,omitempty"`
	Username *string `toml:"username,omitempty"`
	Password string  `toml:"password,omitempty"`
	Insecure bool    `toml:"insecure,omitempty"`
	CACert   string  `toml:"ca_cert,omitempty"`

	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	TLS      *bool  `toml:"tls,omitempty"`
	Database int    `toml:"database,omitempty"`

	FilesAPIKey string      `toml:"files_api_key,omitempty"`
	Resilience  *Resilience `toml:"resilience,omitempty"`
}

// toProfile applies the Database variant's defaults and copies every other
// field through unchanged.
func (p rawProfile) toProfile() Profile {
	profile := Profile{
		DeploymentType: p.DeploymentType,
		APIKey:         p.APIKey,
		APISecret:      p.APISecret,
		APIURL:         p.APIURL,
		URL:            p.URL,
		Password:       p.Password,
		Insecure:       p.Insecure,
		CACert:         p.CACert,
		Host:           p.Host,
		Port:           p.Port,
		Database:       p.Database,
		FilesAPIKey:    p.FilesAPIKey,
		Resilience:     p.Resilience,
	}

	if p.Username != nil {
		profile.Username = *p.Username
	}

	if p.TLS != nil {
		profile.TLS = *p.TLS
	}

	if p.DeploymentType == Database {
		if p.TLS == nil {
			profile.TLS = true
		}

		if profile.Username == "" {
			profile.Username = "default"
		}
	}

	return profile
}

// DefaultCloudURL is used whenever a Cloud profile omits api_url.
const DefaultCloudURL = "https://api.redislabs.com/v1"

// Config is the root document.
type Config struct {
	DefaultEnterprise string             `toml:"default_enterprise,omitempty"`
	DefaultCloud      string             `toml:"default_cloud,omitempty"`
	DefaultDatabase   string             `toml:"default_database,omitempty"`
	FilesAPIKey       string             `toml:"files_api_key,omitempty"`
	Profiles          map[string]Profile `toml:"profiles,omitempty"`
}

// empty returns a zero-value, ready-to-save configuration.
func empty() *Config {
	return &Config{Profiles: map[string]Profile{}}
}

// ProfileNames returns every profile name in lexicographic order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FirstOfType returns the lexicographically smallest profile name whose
// DeploymentType equals t, and whether one exists.
func (c *Config) FirstOfType(t DeploymentType) (string, bool) {
	for _, name := range c.ProfileNames() {
		if c.Profiles[name].DeploymentType == t {
			return name, true
		}
	}

	return "", false
}

// NamesOfType returns every profile name of type t, sorted.
func (c *Config) NamesOfType(t DeploymentType) []string {
	var names []string

	for _, name := range c.ProfileNames() {
		if c.Profiles[name].DeploymentType == t {
			names = append(names, name)
		}
	}

	return names
}

// RemoveProfile deletes a profile and clears any default_* pointing at it.
func (c *Config) RemoveProfile(name string) {
	delete(c.Profiles, name)

	if c.DefaultCloud == name {
		c.DefaultCloud = ""
	}

	if c.DefaultEnterprise == name {
		c.DefaultEnterprise = ""
	}

	if c.DefaultDatabase == name {
		c.DefaultDatabase = ""
	}
}

// Path resolves the platform-specific configuration file location per §4.2.
func Path() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", rctlerr.ConfigNotFound{Path: "%APPDATA%"}
		}

		return filepath.Join(appData, "redis", "redisctl", "config.toml"), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		xdgPath := filepath.Join(home, ".config", "redisctl", "config.toml")
		if pathExists(xdgPath) || pathExists(filepath.Dir(xdgPath)) {
			return xdgPath, nil
		}

		return filepath.Join(home, "Library", "Application Support", "com.redis.redisctl", "config.toml"), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "redisctl", "config.toml"), nil
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(home, ".config", "redisctl", "config.toml"), nil
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// Load reads and parses the configuration file at path. A missing file
// yields a default-empty configuration, not an error.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty(), nil
		}

		return nil, err
	}

	expanded := expandEnv(string(raw))

	var doc struct {
		DefaultEnterprise string                `toml:"default_enterprise,omitempty"`
		DefaultCloud      string                `toml:"default_cloud,omitempty"`
		DefaultDatabase   string                `toml:"default_database,omitempty"`
		FilesAPIKey       string                `toml:"files_api_key,omitempty"`
		Profiles          map[string]rawProfile `toml:"profiles,omitempty"`
	}

	err = toml.Unmarshal([]byte(expanded), &doc)
	if err != nil {
		return nil, rctlerr.ConfigParse{Path: path, Cause: err}
	}

	cfg := &Config{
		DefaultEnterprise: doc.DefaultEnterprise,
		DefaultCloud:      doc.DefaultCloud,
		DefaultDatabase:   doc.DefaultDatabase,
		FilesAPIKey:       doc.FilesAPIKey,
		Profiles:          map[string]Profile{},
	}

	for name, raw := range doc.Profiles {
		cfg.Profiles[name] = raw.toProfile()
	}

	return cfg, nil
}

// Save writes cfg as pretty-printed TOML to path, creating parent
// directories as needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return rctlerr.ConfigWrite{Path: path, Cause: err}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return rctlerr.ConfigWrite{Path: path, Cause: err}
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return rctlerr.ConfigWrite{Path: path, Cause: err}
	}

	return nil
}
