package driven

import (
	"context"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// PostStore persists posts and their applied-commit ledger.
type PostStore interface {
	// Save stores or updates a post.
	// Implementations reject a GitHubURL already held by another post with domain.ErrAlreadyExists.
	// AppliedCommits is not written by Save; use AppendCommit.
	Save(ctx context.Context, post *domain.Post) error

	// Get retrieves a post by ID.
	Get(ctx context.Context, id string) (*domain.Post, error)

	// GetBySlug retrieves a post by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)

	// FindByGitHubURL retrieves the post linked to a GitHub file URL.
	// Returns domain.ErrNotFound if no post is linked to it.
	FindByGitHubURL(ctx context.Context, url string) (*domain.Post, error)

	// AppendCommit records a commit as applied to a post.
	// Appending a commit already present is a no-op.
	AppendCommit(ctx context.Context, postID, commitID string) error

	// List returns all posts.
	List(ctx context.Context) ([]domain.Post, error)

	// Delete removes a post and its ledger.
	Delete(ctx context.Context, id string) error
}
