package auth

import (
	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// NewTokenProvider creates the TokenProvider matching the GitHub settings.
// Returns NullTokenProvider when no token is configured.
func NewTokenProvider(settings domain.GitHubSettings) driven.TokenProvider {
	if !settings.IsConfigured() {
		return NewNullTokenProvider()
	}
	return NewPATProvider(settings.Token)
}
