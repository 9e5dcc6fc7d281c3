package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// encodingNone is reported by the contents API for files over 1MB,
	// whose content must be downloaded separately.
	encodingNone = "none"
)

// Client wraps the go-github client with helper methods.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	enterpriseURL string
	baseURL       *url.URL
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEnterpriseURL points the client at a GitHub Enterprise Server API,
// e.g. "https://ghe.example.com/api/v3/".
func WithEnterpriseURL(apiURL string) ClientOption {
	return func(c *Client) {
		c.enterpriseURL = apiURL
	}
}

// WithBaseURL sends API requests to base instead of api.github.com.
// base must end with a slash.
func WithBaseURL(base *url.URL) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates a new GitHub API client with a token provider.
// A nil provider or an empty token makes anonymous requests.
func NewClient(tokenProvider driven.TokenProvider, opts ...ClientOption) *Client {
	c := &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) (*gh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return c.gh, nil
	}

	var token string
	if c.tokenProvider != nil {
		var err error
		if token, err = c.tokenProvider.GetToken(ctx); err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
	}

	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		// The token source must not be bound to a request context.
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if c.enterpriseURL != "" {
		var err error
		if client, err = client.WithEnterpriseURLs(c.enterpriseURL, c.enterpriseURL); err != nil {
			return nil, fmt.Errorf("enterprise url: %w", err)
		}
	}
	if c.baseURL != nil {
		client.BaseURL = c.baseURL
	}

	c.gh = client
	return c.gh, nil
}

// GetContents fetches a file at ref and returns its decoded content and blob SHA.
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) ([]byte, string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	file, dir, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, "", c.wrapError(err, "get contents")
	}
	if file == nil || dir != nil {
		return nil, "", ErrNotAFile
	}

	if file.GetEncoding() == encodingNone {
		content, err := c.downloadContents(ctx, client, owner, repo, path, ref)
		if err != nil {
			return nil, "", err
		}
		return content, file.GetSHA(), nil
	}

	decoded, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("decode content: %w", err)
	}
	return []byte(decoded), file.GetSHA(), nil
}

// downloadContents downloads a file larger than 1MB.
func (c *Client) downloadContents(
	ctx context.Context, client *gh.Client, owner, repo, path, ref string,
) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	rc, resp, err := client.Repositories.DownloadContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "download contents")
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read contents: %w", err)
	}
	return content, nil
}

// CreateFile creates a new file on branch.
func (c *Client) CreateFile(
	ctx context.Context, owner, repo, path, branch, message string, content []byte,
) error {
	return c.putFile(ctx, owner, repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		Branch:  gh.Ptr(branch),
	})
}

// UpdateFile replaces the file whose current blob SHA is sha.
func (c *Client) UpdateFile(
	ctx context.Context, owner, repo, path, branch, message, sha string, content []byte,
) error {
	return c.putFile(ctx, owner, repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		SHA:     gh.Ptr(sha),
		Branch:  gh.Ptr(branch),
	})
}

// putFile writes a file through the contents API.
// go-github base64-encodes Content on the wire.
func (c *Client) putFile(
	ctx context.Context, owner, repo, path string, opts *gh.RepositoryContentFileOptions,
) error {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var resp *gh.Response
	if opts.SHA == nil {
		_, resp, err = client.Repositories.CreateFile(ctx, owner, repo, path, opts)
	} else {
		_, resp, err = client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	}
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(err, "put contents")
	}
	return nil
}

// ValidateCredentials checks the token by fetching the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	user, resp, err := client.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "validate credentials")
	}
	return user.GetLogin(), nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now().Add(abuseErr.GetRetryAfter())
		return &RateLimitError{ResetAt: resetAt, Limit: c.rateLimiter.Limit()}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
