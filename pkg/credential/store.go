// Package credential resolves opaque credential references to plaintext
// secrets. A reference is one of a literal value, a keyring pointer
// (keyring:<service>/<name>), or an expanded "${VAR}" form left behind by
// the configuration store's textual pre-expansion pass.
//
// Resolution never logs or returns the surrounding configuration; only the
// caller sees the plaintext, and only for the lifetime of the invocation.
package credential

import (
	"os"
	"strings"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/zalando/go-keyring"
)

const keyringPrefix = "keyring:"

// Store resolves and persists credential references against the OS secret
// store. Use New to obtain one; the zero value has no keyring backend.
type Store struct {
	// backend abstracts the OS keyring for testability.
	backend keyringBackend
}

// keyringBackend is the subset of zalando/go-keyring's package functions
// this store depends on.
type keyringBackend interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}
func (osKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// New returns a Store backed by the real OS secret store.
func New() *Store {
	return &Store{backend: osKeyring{}}
}

// newWithBackend is used by tests to inject a fake keyring.
func newWithBackend(b keyringBackend) *Store {
	return &Store{backend: b}
}

// Get resolves reference to its plaintext value following spec §4.1:
//  1. keyring:<service>/<name> — consult the OS secret store; a miss falls
//     through to step 2 rather than failing, so dev/CI environments without
//     a secret store still work.
//  2. a non-empty literal that is not a keyring marker is returned verbatim.
//  3. envFallback, if set and present in the process environment.
//  4. otherwise MissingCredential.
func (s *Store) Get(reference, envFallback string) (string, error) {
	if service, name, ok := splitKeyringRef(reference); ok {
		value, err := s.backend.Get(service, name)
		if err == nil {
			return value, nil
		}
		// Miss or backend unavailable: fall through to env fallback, never fail here.
	} else if reference != "" {
		return reference, nil
	}

	if envFallback != "" {
		if value, ok := os.LookupEnv(envFallback); ok {
			return value, nil
		}
	}

	return "", rctlerr.MissingCredential{Reference: reference, EnvFallback: envFallback}
}

// Store writes value into the OS secret store under a deterministic
// service/name scheme and returns the keyring: reference to persist in
// configuration.
func (s *Store) Store(name, value string) (string, error) {
	service := serviceName()

	err := s.backend.Set(service, name, value)
	if err != nil {
		return "", rctlerr.Keyring{Cause: err}
	}

	return keyringPrefix + service + "/" + name, nil
}

// Delete removes name from the OS secret store. Idempotent: a missing entry
// is not an error.
func (s *Store) Delete(name string) error {
	service := serviceName()

	err := s.backend.Delete(service, name)
	if err != nil && !isNotFound(err) {
		return rctlerr.Keyring{Cause: err}
	}

	return nil
}

func serviceName() string {
	return "redisctl"
}

// splitKeyringRef splits a "keyring:<service>/<name>" reference into its
// parts. ok is false for any other form.
func splitKeyringRef(reference string) (service, name string, ok bool) {
	rest, found := strings.CutPrefix(reference, keyringPrefix)
	if !found {
		return "", "", false
	}

	service, name, found = strings.Cut(rest, "/")
	if !found {
		return "", "", false
	}

	return service, name, true
}

func isNotFound(err error) bool {
	return err == keyring.ErrNotFound
}
