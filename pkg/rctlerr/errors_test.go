package rctlerr_test

import (
	"errors"
	"testing"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessagesAreSingleLine(t *testing.T) {
	t.Parallel()

	cases := []error{
		rctlerr.ConfigNotFound{Path: "/tmp/config.toml"},
		rctlerr.ProfileNotFound{Name: "prod"},
		rctlerr.NoProfilesOfType{Kind: "cloud"},
		rctlerr.AmbiguousDeployment{Candidates: []string{"cloud", "enterprise"}},
		rctlerr.MissingCredential{Reference: "keyring:redisctl/x", EnvFallback: "REDIS_PASSWORD"},
		rctlerr.HTTPClient{Status: 404, Body: "not found"},
		rctlerr.HTTPServer{Status: 503, Body: "unavailable"},
		rctlerr.TaskFailed{TaskID: "t-1", Message: "disk full"},
		rctlerr.TaskTimedOut{TaskID: "t-1", LastStatus: "InProgress"},
		rctlerr.Cancelled{TaskID: "t-1"},
		rctlerr.WriteDisallowed{Operation: "db.set"},
		rctlerr.InvalidInput{Field: "port", Reason: "must be > 0"},
	}

	for _, err := range cases {
		msg := err.Error()
		assert.NotContains(t, msg, "\n")
		assert.NotEmpty(t, msg)
	}
}

func TestSuggestersProvideGuidance(t *testing.T) {
	t.Parallel()

	suggesters := []rctlerr.Suggester{
		rctlerr.ConfigNotFound{Path: "x"},
		rctlerr.ProfileNotFound{Name: "x"},
		rctlerr.NoProfilesOfType{Kind: "cloud"},
		rctlerr.AmbiguousDeployment{Candidates: []string{"cloud", "enterprise"}},
		rctlerr.MissingCredential{Reference: "x"},
		rctlerr.HTTPServer{Status: 500, Body: "x"},
		rctlerr.TaskTimedOut{TaskID: "t", LastStatus: "s"},
		rctlerr.WriteDisallowed{Operation: "x"},
	}

	for _, s := range suggesters {
		assert.NotEmpty(t, s.Suggest())
	}
}

func TestUnwrapChains(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	err := rctlerr.ConfigParse{Path: "x", Cause: cause}
	require.ErrorIs(t, err, cause)

	err2 := rctlerr.Deserialize{Cause: cause}
	require.ErrorIs(t, err2, cause)
}

func TestUsageErrorIsDetectable(t *testing.T) {
	t.Parallel()

	var err error = rctlerr.UsageError{Message: "unknown command"}

	var usageErr rctlerr.UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, "unknown command", usageErr.Message)
}
