package credential

import (
	"testing"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type fakeKeyring struct {
	values map[string]string
}

func newFakeKeyring() *fakeKeyring {
	return &fakeKeyring{values: map[string]string{}}
}

func key(service, user string) string { return service + "/" + user }

func (f *fakeKeyring) Get(service, user string) (string, error) {
	v, ok := f.values[key(service, user)]
	if !ok {
		return "", keyring.ErrNotFound
	}

	return v, nil
}

func (f *fakeKeyring) Set(service, user, password string) error {
	f.values[key(service, user)] = password

	return nil
}

func (f *fakeKeyring) Delete(service, user string) error {
	k := key(service, user)
	if _, ok := f.values[k]; !ok {
		return keyring.ErrNotFound
	}

	delete(f.values, k)

	return nil
}

func TestGetLiteral(t *testing.T) {
	t.Parallel()

	s := newWithBackend(newFakeKeyring())

	value, err := s.Get("plain-value", "")
	require.NoError(t, err)
	assert.Equal(t, "plain-value", value)
}

func TestGetKeyringHit(t *testing.T) {
	t.Parallel()

	backend := newFakeKeyring()
	backend.values["redisctl/my-secret"] = "super-secret"

	s := newWithBackend(backend)

	value, err := s.Get("keyring:redisctl/my-secret", "")
	require.NoError(t, err)
	assert.Equal(t, "super-secret", value)
}

func TestGetKeyringMissFallsBackToEnv(t *testing.T) {
	t.Setenv("TEST_CRED_ENV", "from-env")

	s := newWithBackend(newFakeKeyring())

	value, err := s.Get("keyring:redisctl/absent", "TEST_CRED_ENV")
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)
}

func TestGetMissingCredential(t *testing.T) {
	t.Parallel()

	s := newWithBackend(newFakeKeyring())

	_, err := s.Get("", "UNSET_ENV_VAR_XYZ")
	require.Error(t, err)

	var missing rctlerr.MissingCredential
	require.ErrorAs(t, err, &missing)
}

func TestStoreAndDelete(t *testing.T) {
	t.Parallel()

	s := newWithBackend(newFakeKeyring())

	ref, err := s.Store("my-name", "my-value")
	require.NoError(t, err)
	assert.Equal(t, "keyring:redisctl/my-name", ref)

	value, err := s.Get(ref, "")
	require.NoError(t, err)
	assert.Equal(t, "my-value", value)

	err = s.Delete("my-name")
	require.NoError(t, err)

	_, err = s.Get(ref, "")
	require.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newWithBackend(newFakeKeyring())

	err := s.Delete("never-existed")
	require.NoError(t, err)
}
