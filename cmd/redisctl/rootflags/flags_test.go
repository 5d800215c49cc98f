package rootflags_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
)

func TestApplyEnvFallsBackToEnvironmentWhenFlagUnset(t *testing.T) {
	t.Setenv("REDISCTL_PROFILE", "prod")
	t.Setenv("REDISCTL_OUTPUT", "yaml")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := rootflags.New()
	flags.Register(fs)

	env := viper.New()
	flags.BindEnv(env, fs)

	assert.NoError(t, fs.Parse(nil))

	flags.ApplyEnv(env)

	assert.Equal(t, "prod", flags.Profile)
	assert.Equal(t, "yaml", flags.Output)
}

func TestApplyEnvPrefersExplicitFlagOverEnvironment(t *testing.T) {
	t.Setenv("REDISCTL_PROFILE", "prod")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := rootflags.New()
	flags.Register(fs)

	env := viper.New()
	flags.BindEnv(env, fs)

	assert.NoError(t, fs.Parse([]string{"--profile", "staging"}))

	flags.ApplyEnv(env)

	assert.Equal(t, "staging", flags.Profile)
}
