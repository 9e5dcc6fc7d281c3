package driven

import (
	"context"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// TokenProvider provides access tokens for authenticated GitHub calls.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns empty string for anonymous access.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns the authentication method (pat, none).
	AuthMethod() domain.AuthMethod

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
