// Package resilience builds HTTP transports that apply the retry,
// circuit-breaker, rate-limit, and timeout knobs described in §4.5, with
// command-line overrides (--no-retry, --no-circuit-breaker,
// --no-resilience) taking precedence over whatever a profile configures.
package resilience

import "time"

// Default knob values applied when a profile carries no [profiles.*.resilience]
// table at all.
const (
	DefaultRetries          = 3
	DefaultTimeout          = 30 * time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
)

// Policy is the resolved set of resilience knobs for one invocation.
type Policy struct {
	// Retries is the maximum number of attempts beyond the first for
	// transport errors, 5xx, and 429 responses. Zero disables retry.
	Retries int
	// Timeout is the per-request deadline.
	Timeout time.Duration
	// BreakerThreshold is the number of consecutive failures before the
	// circuit opens. Zero disables the circuit breaker.
	BreakerThreshold int
	// BreakerCooldown is how long the circuit stays open before a single
	// half-open probe is allowed.
	BreakerCooldown time.Duration
	// RateLimitPerSecond bounds outgoing requests per host. Zero means
	// unlimited.
	RateLimitPerSecond float64
}

// Overrides captures the command-line flags that can suppress parts of a
// Policy for the duration of one invocation.
type Overrides struct {
	NoRetry          bool
	NoCircuitBreaker bool
	NoResilience bool
}

// Resolve merges a profile's optional knobs (zero values mean "use the
// default") with the package defaults, then applies command-line
// overrides.
func Resolve(retries, timeoutSecs, breakerThreshold, breakerCooldownSecs int, overrides Overrides) Policy {
	policy := Policy{
		Retries:          DefaultRetries,
		Timeout:          DefaultTimeout,
		BreakerThreshold: DefaultBreakerThreshold,
		BreakerCooldown:  DefaultBreakerCooldown,
	}

	if retries > 0 {
		policy.Retries = retries
	}

	if timeoutSecs > 0 {
		policy.Timeout = time.Duration(timeoutSecs) * time.Second
	}

	if breakerThreshold > 0 {
		policy.BreakerThreshold = breakerThreshold
	}

	if breakerCooldownSecs > 0 {
		policy.BreakerCooldown = time.Duration(breakerCooldownSecs) * time.Second
	}

	if overrides.NoResilience {
		policy.Retries = 0
		policy.BreakerThreshold = 0

		return policy
	}

	if overrides.NoRetry {
		policy.Retries = 0
	}

	if overrides.NoCircuitBreaker {
		policy.BreakerThreshold = 0
	}

	return policy
}
