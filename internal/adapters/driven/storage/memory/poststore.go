package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// Ensure PostStore implements the interface.
var _ driven.PostStore = (*PostStore)(nil)

// PostStore is an in-memory implementation of driven.PostStore.
type PostStore struct {
	mu    sync.RWMutex
	posts map[string]domain.Post
}

// NewPostStore creates a new in-memory post store.
func NewPostStore() *PostStore {
	return &PostStore{
		posts: make(map[string]domain.Post),
	}
}

// Save stores or updates a post. The applied-commit ledger is kept as stored.
func (s *PostStore) Save(_ context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.posts {
		if id == post.ID {
			continue
		}
		if other.Slug == post.Slug {
			return fmt.Errorf("%w: slug %q", domain.ErrAlreadyExists, post.Slug)
		}
		if post.GitHubURL != "" && other.GitHubURL == post.GitHubURL {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, post.GitHubURL)
		}
	}

	stored := *post
	stored.AppliedCommits = nil
	if existing, ok := s.posts[post.ID]; ok {
		stored.AppliedCommits = existing.AppliedCommits
	}
	s.posts[post.ID] = stored
	return nil
}

// Get retrieves a post by ID.
func (s *PostStore) Get(_ context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePost(post), nil
}

// GetBySlug retrieves a post by slug.
func (s *PostStore) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	return s.find(func(p domain.Post) bool { return p.Slug == slug })
}

// FindByGitHubURL retrieves the post linked to a GitHub file URL.
func (s *PostStore) FindByGitHubURL(_ context.Context, url string) (*domain.Post, error) {
	if url == "" {
		return nil, domain.ErrNotFound
	}
	return s.find(func(p domain.Post) bool { return p.GitHubURL == url })
}

// AppendCommit records a commit as applied to a post.
func (s *PostStore) AppendCommit(_ context.Context, postID, commitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	if slices.Contains(post.AppliedCommits, commitID) {
		return nil
	}
	post.AppliedCommits = append(slices.Clone(post.AppliedCommits), commitID)
	s.posts[postID] = post
	return nil
}

// List returns all posts ordered by slug.
func (s *PostStore) List(_ context.Context) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Post, 0, len(s.posts))
	for _, post := range s.posts {
		result = append(result, *clonePost(post))
	}
	slices.SortFunc(result, func(a, b domain.Post) int {
		return strings.Compare(a.Slug, b.Slug)
	})
	return result, nil
}

// Delete removes a post and its ledger.
func (s *PostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) find(match func(domain.Post) bool) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if match(post) {
			return clonePost(post), nil
		}
	}
	return nil, domain.ErrNotFound
}

func clonePost(p domain.Post) *domain.Post {
	p.AppliedCommits = slices.Clone(p.AppliedCommits)
	return &p
}
