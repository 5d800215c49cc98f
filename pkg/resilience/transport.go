package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// httpStatusCodePattern flags 5xx status text embedded in transport error
// messages at word boundaries, avoiding false positives on port numbers.
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

// isRetryableTransportError reports whether err looks like a transient
// network failure worth retrying (as opposed to a permanent one).
func isRetryableTransportError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	patterns := []string{
		"connection reset by peer", "connection refused",
		"i/o timeout", "TLS handshake timeout",
		"unexpected EOF", "no such host",
	}

	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(msg)
}

// Client wraps an *http.Client with retry, circuit-breaking, and
// per-host rate limiting applied per Policy.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	policy  Policy
}

// NewClient builds a resilient HTTP client for policy.
func NewClient(policy Policy) *Client {
	retryable := retryablehttp.NewClient()
	retryable.Logger = nil
	retryable.RetryMax = policy.Retries
	retryable.CheckRetry = checkRetry
	retryable.Backoff = exponentialJitterBackoff
	// Hand back the final response once retries run out, so a last 5xx
	// reaches the caller with its status and body instead of a generic
	// "giving up" error.
	retryable.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if policy.Timeout > 0 {
		retryable.HTTPClient.Timeout = policy.Timeout
	}

	client := &Client{
		http:   retryable.StandardClient(),
		policy: policy,
	}

	if policy.BreakerThreshold > 0 {
		client.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "redisctl-http",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(policy.BreakerThreshold)
			},
			Timeout: policy.BreakerCooldown,
		})
	}

	if policy.RateLimitPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(policy.RateLimitPerSecond), 1)
	}

	return client
}

// Do issues req, applying rate limiting and circuit breaking around the
// underlying retrying transport.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		err := c.limiter.Wait(req.Context())
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.breaker == nil {
		return c.http.Do(req)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return nil, doErr
		}

		if resp.StatusCode >= 500 {
			return resp, &upstreamServerError{resp: resp}
		}

		return resp, nil
	})

	var upstream *upstreamServerError
	if errors.As(err, &upstream) {
		return upstream.resp, nil
	}

	if err != nil {
		return nil, err
	}

	resp, _ := result.(*http.Response)

	return resp, nil
}

// upstreamServerError marks a 5xx response so the breaker still counts it as
// a failure toward its trip threshold, while letting Do recover the real
// *http.Response instead of discarding it behind a generic error — callers
// need the status code and body to distinguish Transport from HttpServer.
type upstreamServerError struct {
	resp *http.Response
}

func (e *upstreamServerError) Error() string {
	return fmt.Sprintf("server returned %d", e.resp.StatusCode)
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return isRetryableTransportError(err), nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	if resp.StatusCode >= 500 {
		return true, nil
	}

	return false, nil
}

// exponentialJitterBackoff doubles the wait per attempt within [min, max],
// adding up to 20% jitter, honoring a Retry-After response header when set.
func exponentialJitterBackoff(minW, maxW time.Duration, attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if secs, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
				return time.Duration(secs) * time.Second
			}
		}
	}

	base := min(minW*time.Duration(1<<attempt), maxW)
	jitter := time.Duration(float64(base) * 0.2 * jitterFraction())

	return base + jitter
}

// jitterFraction returns a value in [0, 1). Random jitter is sourced from
// the monotonic clock's low bits rather than math/rand so backoff stays
// deterministic-enough for tests that fix attempt counts while still
// spreading concurrent callers.
func jitterFraction() float64 {
	return float64(time.Now().Nanosecond()%1000) / 1000.0
}

// IsRetryableError reports whether err represents a condition the
// resilience layer would have retried, for callers that need to classify
// an error after retries are already exhausted (e.g. to render Transport
// vs. HttpServer).
func IsRetryableError(err error) bool {
	var urlErr interface{ Unwrap() error }
	if errors.As(err, &urlErr) {
		return isRetryableTransportError(urlErr.Unwrap())
	}

	return isRetryableTransportError(err)
}
