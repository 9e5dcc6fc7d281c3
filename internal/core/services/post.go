package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// Ensure PostService implements the interface.
var _ driving.PostService = (*PostService)(nil)

// PostService manages posts and runs the save pipeline:
// validate, persist, then outbound sync unless the save suppresses it.
type PostService struct {
	store    driven.PostStore
	outbound driving.OutboundSync
	now      func() time.Time
}

// NewPostService creates a new post service.
// outbound is optional; if nil, saves never sync to GitHub.
func NewPostService(store driven.PostStore, outbound driving.OutboundSync) *PostService {
	return &PostService{
		store:    store,
		outbound: outbound,
		now:      time.Now,
	}
}

// Create stores a new post. An ID is generated if the post has none.
func (s *PostService) Create(ctx context.Context, post *domain.Post) (domain.OutboundResult, error) {
	if s.store == nil {
		return domain.OutboundResult{}, domain.ErrNotImplemented
	}
	if post.ID == "" {
		post.ID = uuid.New().String()
	} else if _, err := s.store.Get(ctx, post.ID); err == nil {
		return domain.OutboundResult{}, fmt.Errorf("%w: post %s", domain.ErrAlreadyExists, post.ID)
	}
	post.AppliedCommits = nil
	return s.Save(ctx, post, domain.SaveOptions{Origin: domain.SaveOriginLocal})
}

// Get retrieves a post by ID.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// GetBySlug retrieves a post by slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetBySlug(ctx, slug)
}

// List returns all posts.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Save validates and persists a post, then syncs it to GitHub unless
// opts marks the save as part of inbound sync.
func (s *PostService) Save(
	ctx context.Context, post *domain.Post, opts domain.SaveOptions,
) (domain.OutboundResult, error) {
	skipped := domain.OutboundResult{Action: domain.OutboundSkipped, URL: post.GitHubURL}
	if s.store == nil {
		return skipped, domain.ErrNotImplemented
	}

	if err := s.prepare(ctx, post); err != nil {
		return skipped, err
	}
	if err := s.store.Save(ctx, post); err != nil {
		return skipped, fmt.Errorf("save post: %w", err)
	}
	logger.Debug("Saved post %s (%s)", post.Slug, opts.Origin)

	if opts.SuppressOutbound() || s.outbound == nil {
		return domain.OutboundResult{Action: domain.OutboundSkipped, URL: post.GitHubURL}, nil
	}
	return s.outbound.SyncPost(ctx, post), nil
}

// Link sets the GitHub file a post syncs with and saves the post, which
// pushes its body to the file.
func (s *PostService) Link(ctx context.Context, id, url string) (domain.OutboundResult, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return domain.OutboundResult{}, err
	}
	post.GitHubURL = url
	return s.Save(ctx, post, domain.SaveOptions{Origin: domain.SaveOriginLocal})
}

// Unlink clears the GitHub link of a post.
func (s *PostService) Unlink(ctx context.Context, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	post.GitHubURL = ""
	_, err = s.Save(ctx, post, domain.SaveOptions{Origin: domain.SaveOriginLocal})
	return err
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Delete(ctx, id)
}

// prepare normalises and validates a post before it is stored.
func (s *PostService) prepare(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		return fmt.Errorf("%w: post has no id", domain.ErrInvalidInput)
	}

	post.Title = strings.TrimSpace(post.Title)
	post.Slug = strings.TrimSpace(post.Slug)
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.Slug == "" {
		return fmt.Errorf("%w: post needs a title or slug", domain.ErrInvalidInput)
	}
	if existing, err := s.store.GetBySlug(ctx, post.Slug); err == nil && existing.ID != post.ID {
		return fmt.Errorf("%w: slug %q is used by post %s", domain.ErrAlreadyExists, post.Slug, existing.ID)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check slug: %w", err)
	}

	post.GitHubURL = strings.TrimSpace(post.GitHubURL)
	if post.GitHubURL != "" {
		loc, err := domain.ParseFileURL(post.GitHubURL)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		post.GitHubURL = loc.URL()

		existing, err := s.store.FindByGitHubURL(ctx, post.GitHubURL)
		if err == nil && existing.ID != post.ID {
			return fmt.Errorf("%w: %s is linked to post %s", domain.ErrAlreadyExists, post.GitHubURL, existing.Slug)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("check link: %w", err)
		}
	}

	now := s.now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	return nil
}
