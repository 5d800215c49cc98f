// Package rootflags defines the global persistent flags shared by every
// subcommand (§6 CLI surface) and the resilience.Overrides they map to.
package rootflags

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/redis-developer/redisctl/pkg/render"
	"github.com/redis-developer/redisctl/pkg/resilience"
)

// envPrefix is the REDISCTL_ environment variable namespace every global
// flag falls back to when not passed explicitly, bound the way the
// teacher's command constructors bind Viper to a cobra flag set.
const envPrefix = "REDISCTL"

var boundFlagNames = []string{
	"profile", "config-file", "output", "query",
	"no-retry", "no-circuit-breaker", "no-resilience",
	"retry-attempts", "rate-limit",
	"wait", "wait-timeout", "wait-interval", "dry-run",
}

// Flags holds the parsed values of every global flag. Subcommands read
// from the same *Flags instance the root command registered, so values
// are visible regardless of where in the tree a flag was set.
type Flags struct {
	Profile          string
	ConfigFile       string
	Output           string
	Query            string
	Verbosity        int
	NoRetry          bool
	NoCircuitBreaker bool
	NoResilience     bool
	RetryAttempts    int
	RateLimit        float64
	WaitTimeoutSecs  int
	WaitIntervalSecs int
	Wait             bool
	DryRun           bool
}

// New returns a zero-value Flags ready for Register.
func New() *Flags {
	return &Flags{}
}

// Register binds every global flag onto fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Profile, "profile", "p", "", "profile to use")
	fs.StringVar(&f.ConfigFile, "config-file", "", "path to the configuration file")
	fs.StringVarP(&f.Output, "output", "o", string(render.Auto), "output format: auto|table|json|yaml")
	fs.StringVarP(&f.Query, "query", "q", "", "JMESPath filter over the JSON result")
	fs.CountVarP(&f.Verbosity, "verbose", "v", "increase logging verbosity (-v, -vv, -vvv)")
	fs.BoolVar(&f.NoRetry, "no-retry", false, "disable request retry for this invocation")
	fs.BoolVar(&f.NoCircuitBreaker, "no-circuit-breaker", false, "disable the circuit breaker for this invocation")
	fs.BoolVar(&f.NoResilience, "no-resilience", false, "disable retry, circuit breaker, and rate limiting for this invocation")
	fs.IntVar(&f.RetryAttempts, "retry-attempts", 0, "override the profile's retry attempt count")
	fs.Float64Var(&f.RateLimit, "rate-limit", 0, "override the per-host outgoing request rate limit")
	fs.BoolVar(&f.Wait, "wait", false, "wait for an async task to reach a terminal state")
	fs.IntVar(&f.WaitTimeoutSecs, "wait-timeout", 300, "seconds to wait for --wait before giving up")
	fs.IntVar(&f.WaitIntervalSecs, "wait-interval", 5, "seconds between task status polls under --wait")
	fs.BoolVar(&f.DryRun, "dry-run", false, "submit a validation-only request where supported")
}

// BindEnv registers every global flag with v for REDISCTL_<NAME>
// environment fallback (flag wins, then env, then the pflag default).
// Call once after Register; ApplyEnv reads the resolved values back.
func (f *Flags) BindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, name := range boundFlagNames {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}
}

// ApplyEnv overwrites f's fields with v's resolved values, picking up any
// REDISCTL_* environment fallback for a flag the caller didn't pass.
func (f *Flags) ApplyEnv(v *viper.Viper) {
	f.Profile = v.GetString("profile")
	f.ConfigFile = v.GetString("config-file")
	f.Output = v.GetString("output")
	f.Query = v.GetString("query")
	f.NoRetry = v.GetBool("no-retry")
	f.NoCircuitBreaker = v.GetBool("no-circuit-breaker")
	f.NoResilience = v.GetBool("no-resilience")
	f.RetryAttempts = v.GetInt("retry-attempts")
	f.RateLimit = v.GetFloat64("rate-limit")
	f.Wait = v.GetBool("wait")
	f.WaitTimeoutSecs = v.GetInt("wait-timeout")
	f.WaitIntervalSecs = v.GetInt("wait-interval")
	f.DryRun = v.GetBool("dry-run")
}

// ResilienceOverrides maps the parsed flags onto resilience.Overrides.
func (f *Flags) ResilienceOverrides() resilience.Overrides {
	return resilience.Overrides{
		NoRetry:          f.NoRetry,
		NoCircuitBreaker: f.NoCircuitBreaker,
		NoResilience:     f.NoResilience,
	}
}

// OutputFormat returns the parsed output format.
func (f *Flags) OutputFormat() render.Format {
	return render.Format(f.Output)
}
