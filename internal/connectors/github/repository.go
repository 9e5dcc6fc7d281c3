package github

import (
	"context"
	"fmt"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// Ensure Repository implements the interface.
var _ driven.FileRepository = (*Repository)(nil)

// Repository reads and writes post files through the GitHub contents API.
type Repository struct {
	client *Client
}

// NewRepository creates a file repository backed by client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// GetFile fetches a file at loc.Branch.
func (r *Repository) GetFile(ctx context.Context, loc domain.FileLocation) (*domain.RemoteFile, error) {
	content, sha, err := r.client.GetContents(ctx, loc.Owner, loc.Repo, loc.Path, loc.Branch)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc.URL(), toDomainError(err))
	}
	return &domain.RemoteFile{SHA: sha, Content: content}, nil
}

// CreateFile creates a file that does not exist yet.
func (r *Repository) CreateFile(ctx context.Context, loc domain.FileLocation, message string, content []byte) error {
	err := r.client.CreateFile(ctx, loc.Owner, loc.Repo, loc.Path, loc.Branch, message, content)
	if err != nil {
		return fmt.Errorf("create %s: %w", loc.URL(), toDomainError(err))
	}
	return nil
}

// UpdateFile replaces a file whose current blob SHA is sha.
func (r *Repository) UpdateFile(
	ctx context.Context, loc domain.FileLocation, message, sha string, content []byte,
) error {
	err := r.client.UpdateFile(ctx, loc.Owner, loc.Repo, loc.Path, loc.Branch, message, sha, content)
	if err != nil {
		return fmt.Errorf("update %s: %w", loc.URL(), toDomainError(err))
	}
	return nil
}

// toDomainError tags client errors with the matching domain sentinel.
func toDomainError(err error) error {
	switch {
	case IsNotFound(err):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case IsConflict(err):
		return fmt.Errorf("%w: %w", domain.ErrRemoteConflict, err)
	case IsRateLimited(err):
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case IsUnauthorized(err) || IsForbidden(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
	default:
		return err
	}
}
