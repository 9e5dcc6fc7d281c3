package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// Ensure InboundSyncService implements the interface.
var _ driving.InboundSync = (*InboundSyncService)(nil)

// InboundSyncService applies GitHub pushes to linked posts.
type InboundSyncService struct {
	posts   driven.PostStore
	saver   driving.PostService
	repo    driven.FileRepository
	alerter driven.Alerter
}

// NewInboundSyncService creates an inbound sync service.
// Posts are looked up and their ledgers appended through posts; content
// changes go through saver so the save pipeline runs with outbound suppressed.
func NewInboundSyncService(
	posts driven.PostStore,
	saver driving.PostService,
	repo driven.FileRepository,
	alerter driven.Alerter,
) *InboundSyncService {
	return &InboundSyncService{
		posts:   posts,
		saver:   saver,
		repo:    repo,
		alerter: alerter,
	}
}

// ApplyPush processes commits in delivery order and each commit's modified
// paths in order. Every (post, commit) pair is applied at most once.
// The only error returned is context cancellation; per-item failures are
// reported to the alerter and counted in the result.
func (s *InboundSyncService) ApplyPush(ctx context.Context, event *domain.PushEvent) (*domain.InboundResult, error) {
	result := &domain.InboundResult{Updated: []domain.SyncUpdate{}}
	if event == nil {
		return result, nil
	}

	for _, commit := range event.Commits {
		logger.Info("Incoming commit: %s", commit.ID)

		for _, path := range commit.Modified {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			loc, err := domain.PushFileLocation(event.Repository.URL, event.Ref, path)
			if err != nil {
				result.Failed++
				s.report(ctx, fmt.Errorf("inbound sync of %s at %s: %w", path, commit.ID, err))
				continue
			}
			update, err := s.applyCommit(ctx, loc, commit)
			switch {
			case err != nil:
				result.Failed++
				s.report(ctx, fmt.Errorf("inbound sync of %s at %s: %w", loc.URL(), commit.ID, err))
			case update == nil:
				result.Skipped++
			default:
				result.Updated = append(result.Updated, *update)
			}
		}
	}

	logger.Info("Push to %s: %d updated, %d skipped, %d failed",
		event.Ref, len(result.Updated), result.Skipped, result.Failed)
	return result, nil
}

// applyCommit brings the post linked to loc up to date with commit.
// A nil update with a nil error means there was nothing to do.
func (s *InboundSyncService) applyCommit(
	ctx context.Context, loc domain.FileLocation, commit domain.PushCommit,
) (*domain.SyncUpdate, error) {
	url := loc.URL()
	logger.Debug("Checking for URL: %s", url)

	post, err := s.posts.FindByGitHubURL(ctx, url)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No post for %s, skipping", url)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	if post.HasCommit(commit.ID) {
		logger.Debug("Post %s has seen commit %s before, skipping", post.Slug, commit.ID)
		return nil, nil
	}

	file, err := s.repo.GetFile(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}

	// Merge commits and no-op pushes leave the content as it is.
	body := strings.ToValidUTF8(string(file.Content), "\uFFFD")
	if body == post.Body {
		logger.Debug("Body of post %s is unchanged, skipping", post.Slug)
		return nil, nil
	}

	post.Body = body
	post.LastCommitMessage = commit.Message

	logger.Info("Updating post %s from %s", post.Slug, commit.ID)
	if _, err := s.saver.Save(ctx, post, domain.SaveOptions{Origin: domain.SaveOriginInbound}); err != nil {
		return nil, fmt.Errorf("save post %s: %w", post.Slug, err)
	}

	// The body is saved; a ledger failure only risks a later no-op re-fetch.
	if err := s.posts.AppendCommit(ctx, post.ID, commit.ID); err != nil {
		s.report(ctx, fmt.Errorf("record commit %s on post %s: %w", commit.ID, post.Slug, err))
	}

	return &domain.SyncUpdate{
		Post:    post.Slug,
		URL:     url,
		Message: commit.Message,
		Commit:  commit.ID,
	}, nil
}

func (s *InboundSyncService) report(ctx context.Context, err error) {
	if s.alerter != nil {
		s.alerter.ReportFailure(ctx, err)
	}
}
