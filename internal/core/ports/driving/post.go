package driving

import (
	"context"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// PostService manages posts. Save is the single write path for post content.
type PostService interface {
	// Create stores a new post and runs the save pipeline.
	Create(ctx context.Context, post *domain.Post) (domain.OutboundResult, error)

	// Get retrieves a post by ID.
	Get(ctx context.Context, id string) (*domain.Post, error)

	// GetBySlug retrieves a post by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)

	// List returns all posts.
	List(ctx context.Context) ([]domain.Post, error)

	// Save validates and persists a post, then runs outbound sync unless
	// opts suppresses it. An outbound failure is reported in the result,
	// never as the returned error.
	Save(ctx context.Context, post *domain.Post, opts domain.SaveOptions) (domain.OutboundResult, error)

	// Link sets the GitHub file a post is synced with and saves it.
	Link(ctx context.Context, id, url string) (domain.OutboundResult, error)

	// Unlink clears the GitHub link of a post.
	Unlink(ctx context.Context, id string) error

	// Delete removes a post.
	Delete(ctx context.Context, id string) error
}
