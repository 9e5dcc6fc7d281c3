// Package github reads and writes single repository files through the
// GitHub contents API.
//
// # Components
//
//   - Client: wraps go-github with lazy authentication and rate limiting
//   - Repository: implements [driven.FileRepository] on top of Client
//   - RateLimiter: proactive token bucket plus reactive X-RateLimit handling
//
// # Authentication
//
// The client takes a [driven.TokenProvider]. A Personal Access Token with
// contents write access is needed to create or update files. Without a token
// the client makes anonymous requests, which can still read public
// repositories but are limited to 60 requests per hour.
//
// GitHub Enterprise Server is supported through [WithEnterpriseURL].
//
// # Error Handling
//
// Client returns [APIError] and [RateLimitError]. Repository maps them to
// domain sentinels:
//
//   - 404: [domain.ErrNotFound]
//   - 409 and 422: [domain.ErrRemoteConflict]
//   - rate limits: [domain.ErrRateLimited]
//   - 401: [domain.ErrAuthInvalid]
//
// # Limitations
//
//   - Branch names containing "/" cannot be addressed by file URL
//   - Files over 1MB are downloaded through a second request
package github
