// Package dataplane implements the Redis data-plane command runners
// (§4.8): connection resolution, typed reply formatting, write gating,
// and cursor-based scanning over a pooled go-redis client.
package dataplane

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/redis-developer/redisctl/pkg/config"
	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// BuildURL constructs a redis[s]://user:pass@host:port/db connection
// string from a Database profile, per §4.8 step 1. An explicit url always
// wins when non-empty.
func BuildURL(explicitURL string, profile config.Profile) string {
	if explicitURL != "" {
		return explicitURL
	}

	scheme := "redis"
	if profile.TLS {
		scheme = "rediss"
	}

	user := profile.Username
	if user == "" {
		user = "default"
	}

	userinfo := url.User(user)
	if profile.Password != "" {
		userinfo = url.UserPassword(user, profile.Password)
	}

	u := url.URL{
		Scheme: scheme,
		User:   userinfo,
		Host:   fmt.Sprintf("%s:%d", profile.Host, profile.Port),
		Path:   "/" + strconv.Itoa(profile.Database),
	}

	return u.String()
}

// Runner opens a pooled, multiplexed connection to one Database profile
// and issues commands against it. The go-redis client is itself safe for
// concurrent use, so a Runner may be shared across goroutines issuing
// commands for the same profile.
type Runner struct {
	client        *redis.Client
	writesAllowed bool
}

// Open parses connURL and returns a Runner. writesAllowed gates mutating
// commands per §4.7/§4.8 step 4.
func Open(connURL string, writesAllowed bool) (*Runner, error) {
	opts, err := redis.ParseURL(connURL)
	if err != nil {
		return nil, rctlerr.InvalidInput{Field: "url", Reason: err.Error()}
	}

	return &Runner{client: redis.NewClient(opts), writesAllowed: writesAllowed}, nil
}

// Close releases the underlying connection pool.
func (r *Runner) Close() error {
	return r.client.Close()
}

func (r *Runner) checkWriteAllowed(operation string) error {
	if !r.writesAllowed {
		return rctlerr.WriteDisallowed{Operation: operation}
	}

	return nil
}

// Get returns the string value of key, or a typed "not found" via redis.Nil.
func (r *Runner) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", translateReplyError(err)
	}

	return value, nil
}

// Set writes key=value. Gated: requires write permission.
func (r *Runner) Set(ctx context.Context, key, value string) error {
	if err := r.checkWriteAllowed("set"); err != nil {
		return err
	}

	return translateReplyError(r.client.Set(ctx, key, value, 0).Err())
}

// Delete removes one or more keys. Gated: requires write permission.
func (r *Runner) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := r.checkWriteAllowed("del"); err != nil {
		return 0, err
	}

	count, err := r.client.Del(ctx, keys...).Result()

	return count, translateReplyError(err)
}

// HGetAll returns every field/value pair of a hash key.
func (r *Runner) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, key).Result()

	return values, translateReplyError(err)
}

// LRange returns a slice of a list key.
func (r *Runner) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := r.client.LRange(ctx, key, start, stop).Result()

	return values, translateReplyError(err)
}

// SMembers returns every member of a set key.
func (r *Runner) SMembers(ctx context.Context, key string) ([]string, error) {
	values, err := r.client.SMembers(ctx, key).Result()

	return values, translateReplyError(err)
}

// ZRangeWithScores returns a slice of a sorted-set key with scores.
func (r *Runner) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error) {
	values, err := r.client.ZRangeWithScores(ctx, key, start, stop).Result()

	return values, translateReplyError(err)
}

// ScanResult is one page of a cursor-based scan.
type ScanResult struct {
	Keys   []string
	Cursor uint64
	Done   bool
}

// Scan performs a single cursor-based SCAN page, honoring a type filter
// and a caller-supplied limit. It never issues a blocking KEYS command,
// satisfying §4.8 step 5's production-safety requirement.
func (r *Runner) Scan(ctx context.Context, cursor uint64, match, typeFilter string, limit int64) (ScanResult, error) {
	var (
		keys     []string
		next     uint64
		scanErr  error
	)

	if typeFilter != "" {
		keys, next, scanErr = r.client.ScanType(ctx, cursor, match, limit, typeFilter).Result()
	} else {
		keys, next, scanErr = r.client.Scan(ctx, cursor, match, limit).Result()
	}

	if scanErr != nil {
		return ScanResult{}, translateReplyError(scanErr)
	}

	return ScanResult{Keys: keys, Cursor: next, Done: next == 0}, nil
}

// translateReplyError distinguishes redis.Nil (not found, not an error
// worth rendering as Transport) from genuine transport failures.
func translateReplyError(err error) error {
	if err == nil || err == redis.Nil {
		return err
	}

	return rctlerr.Transport{Cause: err}
}
