// Package httpclient implements the Cloud and Enterprise REST clients
// described in §4.5: shared raw JSON operations layered with per-backend
// authentication, on top of the resilience transport.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
	"github.com/redis-developer/redisctl/pkg/resilience"
)

// Authenticator attaches backend-specific auth to an outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request)
}

// CloudAuth sets the two header fields Cloud's REST API expects.
type CloudAuth struct {
	APIKey    string
	APISecret string
}

func (a CloudAuth) Authenticate(req *http.Request) {
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("x-api-secret-key", a.APISecret)
}

// EnterpriseAuth applies HTTP Basic auth for Enterprise's REST API.
type EnterpriseAuth struct {
	Username string
	Password string
}

func (a EnterpriseAuth) Authenticate(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// Client is a thin REST client shared by both backends: raw JSON in, raw
// JSON out. Auth is applied by its Authenticator; retry, circuit-breaking,
// and timeout are handled by the resilience.Client it wraps.
type Client struct {
	BaseURL string
	Auth    Authenticator
	http    *resilience.Client
}

// New builds a Client for baseURL, authenticating with auth and applying
// policy via the resilience package.
func New(baseURL string, auth Authenticator, policy resilience.Policy) *Client {
	return &Client{
		BaseURL: baseURL,
		Auth:    auth,
		http:    resilience.NewClient(policy),
	}
}

// GetRaw issues GET path and returns the decoded JSON body.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	raw, _, err := c.do(ctx, http.MethodGet, path, nil)

	return raw, err
}

// PostRaw issues POST path with body and returns the decoded JSON response.
func (c *Client) PostRaw(ctx context.Context, path string, body any) (json.RawMessage, error) {
	raw, _, err := c.do(ctx, http.MethodPost, path, body)

	return raw, err
}

// PutRaw issues PUT path with body and returns the decoded JSON response.
func (c *Client) PutRaw(ctx context.Context, path string, body any) (json.RawMessage, error) {
	raw, _, err := c.do(ctx, http.MethodPut, path, body)

	return raw, err
}

// DeleteRaw issues DELETE path. The response body may be empty.
func (c *Client) DeleteRaw(ctx context.Context, path string) (json.RawMessage, error) {
	raw, _, err := c.do(ctx, http.MethodDelete, path, nil)

	return raw, err
}

// PostRawWithHeader is PostRaw plus the response header, for callers (the
// Async Workflow Engine's task-id extraction) that must tolerate a task id
// surfaced via a Location/Link response header instead of the JSON body —
// the two shapes the Cloud API uses interchangeably depending on endpoint.
func (c *Client) PostRawWithHeader(ctx context.Context, path string, body any) (json.RawMessage, http.Header, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// PutRawWithHeader is PutRaw plus the response header; see PostRawWithHeader.
func (c *Client) PutRawWithHeader(ctx context.Context, path string, body any) (json.RawMessage, http.Header, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// DeleteRawWithHeader is DeleteRaw plus the response header; see PostRawWithHeader.
func (c *Client) DeleteRawWithHeader(ctx context.Context, path string) (json.RawMessage, http.Header, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, http.Header, error) {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, rctlerr.InvalidInput{Field: "body", Reason: err.Error()}
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, nil, rctlerr.Transport{Cause: err}
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Auth.Authenticate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, rctlerr.Transport{Cause: err}
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, rctlerr.Transport{Cause: err}
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, nil, rctlerr.HTTPServer{Status: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode >= 400:
		return nil, nil, rctlerr.HTTPClient{Status: resp.StatusCode, Body: string(respBody)}
	}

	if len(respBody) == 0 {
		return nil, resp.Header, nil
	}

	if !json.Valid(respBody) {
		return nil, nil, rctlerr.Deserialize{Cause: errNotJSON{body: string(respBody)}}
	}

	return json.RawMessage(respBody), resp.Header, nil
}

type errNotJSON struct{ body string }

func (e errNotJSON) Error() string { return "response body is not valid JSON: " + truncate(e.body) }

func truncate(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
