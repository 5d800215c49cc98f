package restcmd_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redis-developer/redisctl/cmd/redisctl/backend"
	"github.com/redis-developer/redisctl/cmd/redisctl/rootflags"
	"github.com/redis-developer/redisctl/cmd/redisctl/restcmd"
	"github.com/redis-developer/redisctl/pkg/httpclient"
	"github.com/redis-developer/redisctl/pkg/resilience"
)

func testResolver(server *httptest.Server) restcmd.Resolver {
	return func(_ *rootflags.Flags) (*backend.Context, error) {
		auth := httpclient.CloudAuth{APIKey: "k", APISecret: "s"}
		policy := resilience.Resolve(0, 0, 0, 0, resilience.Overrides{})

		return &backend.Context{
			ProfileName: "test",
			Client:      httpclient.New(server.URL, auth, policy),
		}, nil
	}
}

func testResource() restcmd.Resource {
	return restcmd.Resource{
		Name:       "subscription",
		Short:      "Manage subscriptions",
		Collection: "/subscriptions",
		Item:       func(id string) string { return "/subscriptions/" + id },
		TaskPath:   func(id string) string { return "/tasks/" + id },
	}
}

func TestResourceListRendersCollection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"prod"}]`))
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "prod")
}

func TestResourceGetRendersItem(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"get", "42"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "42")
}

func TestResourceCreateWaitsForTask(t *testing.T) {
	t.Parallel()

	var polls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"taskId":"t1"}`))
		case r.URL.Path == "/tasks/t1":
			polls++
			if polls < 2 {
				_, _ = w.Write([]byte(`{"status":"InProgress"}`))
			} else {
				_, _ = w.Write([]byte(`{"status":"Completed","resourceId":"99"}`))
			}
		case r.URL.Path == "/subscriptions/99":
			_, _ = w.Write([]byte(`{"id":99,"name":"created"}`))
		}
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"
	flags.WaitIntervalSecs = 1
	flags.WaitTimeoutSecs = 5

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create", "--data", `{"name":"x"}`, "--wait"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "created")
}

func TestResourceCreateExtractsTaskIDFromLocationHeader(t *testing.T) {
	t.Parallel()

	var polled bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.Header().Set("Location", "https://api.example.com/tasks/hdr-1")
			w.WriteHeader(http.StatusAccepted)
		case r.URL.Path == "/tasks/hdr-1":
			polled = true
			_, _ = w.Write([]byte(`{"status":"Completed","resourceId":"7"}`))
		case r.URL.Path == "/subscriptions/7":
			_, _ = w.Write([]byte(`{"id":7,"name":"from-header"}`))
		}
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"
	flags.WaitIntervalSecs = 1
	flags.WaitTimeoutSecs = 5

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create", "--data", `{"name":"x"}`, "--wait"})
	require.NoError(t, cmd.Execute())

	assert.True(t, polled, "task id from the Location header must still drive polling")
	assert.Contains(t, out.String(), "from-header")
}

func TestResourceCreateDryRunNeverPolls(t *testing.T) {
	t.Parallel()

	var sawTaskPoll bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "dry_run=true", r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"taskId":"t1"}`))
		case strings.HasPrefix(r.URL.Path, "/tasks/"):
			sawTaskPoll = true
			_, _ = w.Write([]byte(`{"status":"Completed","resourceId":"99"}`))
		}
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"
	flags.DryRun = true

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create", "--data", `{"name":"x"}`, "--wait"})
	require.NoError(t, cmd.Execute())

	assert.False(t, sawTaskPoll, "dry-run must never drive the workflow engine")
	assert.Contains(t, out.String(), "t1")
}

func TestResourceDeleteDryRunStubsMissingBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dry_run=true", r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	flags := rootflags.New()
	flags.Output = "json"
	flags.DryRun = true

	var out bytes.Buffer

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"delete", "42"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"dryRun": true`)
}

func TestResourceCreateRejectsInvalidData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	flags := rootflags.New()

	cmd := restcmd.New(flags, testResolver(server), testResource())
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"create", "--data", "{not json"})

	err := cmd.Execute()
	require.Error(t, err)
}
