package apicmd_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redis-developer/redisctl/cmd/redisctl/apicmd"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/pkg/config"
)

func newFlags(t *testing.T, server *httptest.Server) *rootflags.Flags {
	t.Helper()

	cfg := &config.Config{Profiles: map[string]config.Profile{
		"prod": {DeploymentType: config.Cloud, APIKey: "k", APISecret: "s", APIURL: server.URL},
	}}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.Save(path, cfg))

	flags := rootflags.New()
	flags.ConfigFile = path
	flags.Output = "json"

	return flags
}

func TestAPIGetRendersResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	flags := newFlags(t, server)

	var out bytes.Buffer

	cmd := apicmd.New(flags)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"get", "/ping"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "\"status\"")
}

func TestAPIPostRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	flags := newFlags(t, server)

	cmd := apicmd.New(flags)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"post", "/things", "--body", "{not json"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestAPIGetSurfacesHTTPClientError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"missing"}`))
	}))
	defer server.Close()

	flags := newFlags(t, server)

	cmd := apicmd.New(flags)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"get", "/missing"})

	err := cmd.Execute()
	require.Error(t, err)
}
