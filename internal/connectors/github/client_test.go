package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token string
	err   error
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *mockTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

func (p *mockTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// newTestClient returns a client talking to handler.
func newTestClient(t *testing.T, token string, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	return NewClient(&mockTokenProvider{token: token},
		WithBaseURL(base),
		WithRateLimiter(NewRateLimiterWithRate(1000, 100)),
	)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_GetContents(t *testing.T) {
	var gotAuth, gotRef string
	c := newTestClient(t, "ghp_test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/blog/contents/posts/testing.md", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotRef = r.URL.Query().Get("ref")
		w.Header().Set(HeaderRateRemaining, "4321")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     "posts/testing.md",
			"sha":      "abc123",
			"content":  base64.StdEncoding.EncodeToString([]byte("Hello")),
		})
	}))

	content, sha, err := c.GetContents(context.Background(), "octo", "blog", "posts/testing.md", "main")

	require.NoError(t, err)
	assert.Equal(t, "Hello", string(content))
	assert.Equal(t, "abc123", sha)
	assert.Equal(t, "main", gotRef)
	assert.Equal(t, "Bearer ghp_test", gotAuth)
	assert.Equal(t, 4321, c.RateLimiter().Remaining())
}

func TestClient_GetContents_Anonymous(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, map[string]any{
			"type": "file", "encoding": "base64", "sha": "abc", "content": "",
		})
	}))

	_, _, err := c.GetContents(context.Background(), "octo", "blog", "README.md", "main")

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_GetContents_Directory(t *testing.T) {
	c := newTestClient(t, "ghp_test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{{"type": "file", "name": "a.md"}})
	}))

	_, _, err := c.GetContents(context.Background(), "octo", "blog", "posts", "main")

	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestClient_GetContents_NotFound(t *testing.T) {
	c := newTestClient(t, "ghp_test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}))

	_, _, err := c.GetContents(context.Background(), "octo", "blog", "posts/missing.md", "main")

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestClient_GetContents_TokenError(t *testing.T) {
	c := NewClient(&mockTokenProvider{err: domain.ErrAuthRequired})

	_, _, err := c.GetContents(context.Background(), "octo", "blog", "a.md", "main")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClient_CreateAndUpdateFile(t *testing.T) {
	type putBody struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
		Branch  string `json:"branch"`
	}
	var bodies []putBody

	c := newTestClient(t, "ghp_test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/octo/blog/contents/posts/testing.md", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body putBody
		require.NoError(t, json.Unmarshal(raw, &body))
		bodies = append(bodies, body)
		writeJSON(t, w, http.StatusOK, map[string]any{"content": map[string]any{"sha": "new"}})
	}))
	ctx := context.Background()

	require.NoError(t, c.CreateFile(ctx, "octo", "blog", "posts/testing.md", "main", "msg", []byte("Hello")))
	require.NoError(t, c.UpdateFile(ctx, "octo", "blog", "posts/testing.md", "main", "msg2", "old", []byte("Bye")))

	require.Len(t, bodies, 2)
	assert.Equal(t, "msg", bodies[0].Message)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("Hello")), bodies[0].Content)
	assert.Empty(t, bodies[0].SHA)
	assert.Equal(t, "main", bodies[0].Branch)
	assert.Equal(t, "old", bodies[1].SHA)
	assert.Equal(t, "msg2", bodies[1].Message)
}

func TestClient_ValidateCredentials(t *testing.T) {
	c := newTestClient(t, "ghp_test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"login": "octocat"})
	}))

	login, err := c.ValidateCredentials(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestClient_ValidateCredentials_Unauthorized(t *testing.T) {
	c := newTestClient(t, "bad", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
	}))

	_, err := c.ValidateCredentials(context.Background())

	assert.True(t, IsUnauthorized(err))
}

func TestClient_WithEnterpriseURL(t *testing.T) {
	c := NewClient(nil, WithEnterpriseURL("https://ghe.example.com/api/v3/"))

	client, err := c.ensureClient(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(client.BaseURL.String(), "https://ghe.example.com/api/v3/"))
}
