package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter()

	assert.Equal(t, GitHubRateLimit, r.Remaining())
	assert.Equal(t, GitHubRateLimit, r.Limit())
	assert.True(t, r.ResetTime().IsZero())
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	reset := time.Now().Add(time.Hour).Unix()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "60")
	resp.Header.Set(HeaderRateRemaining, "59")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(reset, 10))
	r.UpdateFromResponse(resp)

	assert.Equal(t, 60, r.Limit())
	assert.Equal(t, 59, r.Remaining())
	assert.Equal(t, reset, r.ResetTime().Unix())
}

func TestRateLimiter_UpdateFromResponse_IgnoresGarbage(t *testing.T) {
	r := NewRateLimiter()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "lots")
	r.UpdateFromResponse(resp)
	r.UpdateFromResponse(nil)

	assert.Equal(t, GitHubRateLimit, r.Remaining())
}

func TestRateLimiter_Wait_BlocksUntilResetOrCancel(t *testing.T) {
	r := NewRateLimiterWithRate(1000, 10)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
	r.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait_PassesWithQuota(t *testing.T) {
	r := NewRateLimiterWithRate(1000, 10)
	require.NoError(t, r.Wait(context.Background()))
}
