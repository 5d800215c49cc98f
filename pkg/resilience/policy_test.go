package resilience_test

import (
	"testing"
	"time"

	"github.com/redis-developer/redisctl/pkg/resilience"
	"github.com/stretchr/testify/assert"
)

func TestResolveUsesDefaultsWhenProfileOmitsKnobs(t *testing.T) {
	t.Parallel()

	policy := resilience.Resolve(0, 0, 0, 0, resilience.Overrides{})

	assert.Equal(t, resilience.DefaultRetries, policy.Retries)
	assert.Equal(t, resilience.DefaultTimeout, policy.Timeout)
	assert.Equal(t, resilience.DefaultBreakerThreshold, policy.BreakerThreshold)
	assert.Equal(t, resilience.DefaultBreakerCooldown, policy.BreakerCooldown)
}

func TestResolveHonorsProfileKnobs(t *testing.T) {
	t.Parallel()

	policy := resilience.Resolve(7, 15, 2, 10, resilience.Overrides{})

	assert.Equal(t, 7, policy.Retries)
	assert.Equal(t, 15*time.Second, policy.Timeout)
	assert.Equal(t, 2, policy.BreakerThreshold)
	assert.Equal(t, 10*time.Second, policy.BreakerCooldown)
}

func TestNoRetryOverride(t *testing.T) {
	t.Parallel()

	policy := resilience.Resolve(5, 0, 0, 0, resilience.Overrides{NoRetry: true})

	assert.Zero(t, policy.Retries)
	assert.Equal(t, resilience.DefaultBreakerThreshold, policy.BreakerThreshold)
}

func TestNoCircuitBreakerOverride(t *testing.T) {
	t.Parallel()

	policy := resilience.Resolve(0, 0, 5, 0, resilience.Overrides{NoCircuitBreaker: true})

	assert.Zero(t, policy.BreakerThreshold)
	assert.Equal(t, resilience.DefaultRetries, policy.Retries)
}

func TestNoResilienceDisablesBoth(t *testing.T) {
	t.Parallel()

	policy := resilience.Resolve(5, 0, 5, 0, resilience.Overrides{NoResilience: true})

	assert.Zero(t, policy.Retries)
	assert.Zero(t, policy.BreakerThreshold)
}
