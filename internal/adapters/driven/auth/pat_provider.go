package auth

import (
	"context"
	"strings"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

// PATProvider provides a static Personal Access Token.
// PATs don't expire and don't require refresh.
type PATProvider struct {
	token string
}

// NewPATProvider creates a token provider for PAT-based authentication.
func NewPATProvider(token string) *PATProvider {
	return &PATProvider{token: strings.TrimSpace(token)}
}

// GetToken returns the PAT.
func (p *PATProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// AuthMethod returns AuthMethodPAT.
func (p *PATProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if a token is set.
func (p *PATProvider) IsAuthenticated() bool {
	return p.token != ""
}
