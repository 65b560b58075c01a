package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&Config{APIURL: srv.URL, RawURL: srv.URL + "/raw", Token: token})
	require.NoError(t, err)
	return c
}

func TestConfig_Validate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultRawURL, cfg.RawURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	bad := &Config{APIURL: "ftp://example.com"}
	assert.Error(t, bad.Validate())
}

func TestGetTree(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("recursive")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"sha": "abc",
			"tree": [
				{"path": "README.md", "type": "blob", "sha": "r1"},
				{"path": "flows", "type": "tree", "sha": "t1"},
				{"path": "flows/My-Flow.json", "type": "blob", "sha": "f1", "size": 42}
			],
			"truncated": false
		}`))
	}, "secret")

	tree, err := c.GetTree(context.Background(), "acme", "flows", "main")
	require.NoError(t, err)

	assert.Equal(t, "/repos/acme/flows/git/trees/main", gotPath)
	assert.Equal(t, "1", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	require.Len(t, tree.Entries, 3)
	assert.Equal(t, "flows/My-Flow.json", tree.Entries[2].Path)
	assert.Equal(t, "f1", tree.Entries[2].SHA)
	assert.True(t, tree.Entries[2].IsBlob())
	assert.False(t, tree.Entries[1].IsBlob())
}

func TestGetTree_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		headers map[string]string
		target  error
	}{
		{name: "missing-tree", status: http.StatusOK, body: `{"sha":"abc"}`, target: ErrMalformedTree},
		{name: "truncated", status: http.StatusOK, body: `{"sha":"abc","tree":[],"truncated":true}`, target: ErrTruncatedTree},
		{name: "not-found", status: http.StatusNotFound, body: `{"message":"Not Found"}`, target: ErrNotFound},
		{name: "rate-limited-429", status: http.StatusTooManyRequests, body: `{"message":"slow down"}`, target: ErrRateLimited},
		{
			name:    "rate-limited-403",
			status:  http.StatusForbidden,
			body:    `{"message":"API rate limit exceeded"}`,
			headers: map[string]string{"X-RateLimit-Remaining": "0"},
			target:  ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, "")

			tree, err := c.GetTree(context.Background(), "acme", "flows", "main")
			assert.Nil(t, tree)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestGetTree_ServerErrorCarriesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}, "")

	_, err := c.GetTree(context.Background(), "acme", "flows", "main")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestGetTree_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(&Config{APIURL: srv.URL, RawURL: srv.URL})
	require.NoError(t, err)

	_, err = c.GetTree(context.Background(), "acme", "flows", "main")
	assert.Error(t, err)
}

func TestGetRawContent(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		if r.URL.Path == "/raw/acme/flows/main/dir/My Flow.json" {
			w.Write([]byte(`{"nodes":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404: Not Found"))
	}, "")

	body, err := c.GetRawContent(context.Background(), "acme", "flows", "main", "dir/My Flow.json")
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[]}`, string(body))
	assert.Equal(t, "/raw/acme/flows/main/dir/My%20Flow.json", gotPath)

	_, err = c.GetRawContent(context.Background(), "acme", "flows", "main", "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "404: Not Found")
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "a/b/c.json", escapePath("a/b/c.json"))
	assert.Equal(t, "a/b%20c/d%23e.json", escapePath("/a/b c/d#e.json"))
}
