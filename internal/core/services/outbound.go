package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// Ensure OutboundSyncService implements the interface.
var _ driving.OutboundSync = (*OutboundSyncService)(nil)

// OutboundSyncService writes saved posts to their linked GitHub files.
type OutboundSyncService struct {
	repo    driven.FileRepository
	alerter driven.Alerter
	message string
}

// NewOutboundSyncService creates an outbound sync service.
// A nil repo means no GitHub integration is configured and every sync is skipped.
// An empty message falls back to domain.DefaultCommitMessage.
func NewOutboundSyncService(repo driven.FileRepository, alerter driven.Alerter, message string) *OutboundSyncService {
	if message == "" {
		message = domain.DefaultCommitMessage
	}
	return &OutboundSyncService{
		repo:    repo,
		alerter: alerter,
		message: message,
	}
}

// SyncPost creates or updates the file a post is linked to.
// When the remote file already holds the post body no commit is made and the
// result is OutboundUnchanged, so repeated saves do not add empty commits.
// Failures are reported to the alerter and returned in the result.
func (s *OutboundSyncService) SyncPost(ctx context.Context, post *domain.Post) domain.OutboundResult {
	if post == nil || !post.IsLinked() {
		return domain.OutboundResult{Action: domain.OutboundSkipped}
	}
	if s.repo == nil {
		logger.Debug("GitHub not configured, not syncing %s", post.GitHubURL)
		return domain.OutboundResult{Action: domain.OutboundSkipped, URL: post.GitHubURL}
	}

	action, err := s.push(ctx, post)
	if err != nil {
		err = fmt.Errorf("outbound sync of %s to %s: %w", post.Slug, post.GitHubURL, err)
		if s.alerter != nil {
			s.alerter.ReportFailure(ctx, err)
		}
		return domain.OutboundResult{Action: domain.OutboundFailed, URL: post.GitHubURL, Err: err}
	}
	return domain.OutboundResult{Action: action, URL: post.GitHubURL}
}

// push resolves create-vs-update against the current remote file and writes the body.
func (s *OutboundSyncService) push(ctx context.Context, post *domain.Post) (domain.OutboundAction, error) {
	loc, err := domain.ParseFileURL(post.GitHubURL)
	if err != nil {
		return domain.OutboundFailed, err
	}
	content := []byte(post.Body)

	current, err := s.repo.GetFile(ctx, loc)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("Creating post on github at: %s", post.GitHubURL)
		if err := s.repo.CreateFile(ctx, loc, s.message, content); err != nil {
			return domain.OutboundFailed, fmt.Errorf("create file: %w", err)
		}
		return domain.OutboundCreated, nil
	}
	if err != nil {
		return domain.OutboundFailed, fmt.Errorf("get file: %w", err)
	}

	if bytes.Equal(current.Content, content) {
		logger.Debug("Post on github at %s is already up to date", post.GitHubURL)
		return domain.OutboundUnchanged, nil
	}

	logger.Info("Updating post on github at: %s", post.GitHubURL)
	if err := s.repo.UpdateFile(ctx, loc, s.message, current.SHA, content); err != nil {
		return domain.OutboundFailed, fmt.Errorf("update file: %w", err)
	}
	return domain.OutboundUpdated, nil
}
