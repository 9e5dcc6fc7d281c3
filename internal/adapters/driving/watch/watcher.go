// Package watch saves a post whenever its local file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// DefaultDebounce groups the burst of events an editor emits for one save.
const DefaultDebounce = 300 * time.Millisecond

// ResultHandler is called after each save triggered by the watcher.
type ResultHandler func(result domain.OutboundResult, err error)

// Option configures a PostWatcher.
type Option func(*PostWatcher)

// WithDebounce sets how long the file must be quiet before it is saved.
func WithDebounce(d time.Duration) Option {
	return func(w *PostWatcher) {
		w.debounce = d
	}
}

// WithResultHandler registers a callback for save results.
func WithResultHandler(h ResultHandler) Option {
	return func(w *PostWatcher) {
		w.onResult = h
	}
}

// PostWatcher watches one local file and saves its content as a post's body.
// Saves use local origin, so linked posts are pushed to GitHub.
type PostWatcher struct {
	posts    driving.PostService
	postID   string
	path     string
	debounce time.Duration
	onResult ResultHandler
}

// NewPostWatcher creates a watcher for the file at path backing post postID.
func NewPostWatcher(posts driving.PostService, postID, path string, opts ...Option) *PostWatcher {
	w := &PostWatcher{
		posts:    posts,
		postID:   postID,
		path:     path,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. The parent directory is watched so that
// editors which save by renaming a temporary file are seen too.
func (w *PostWatcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("Watching %s for post %s", abs, w.postID)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("%s: %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			result, err := w.SyncFile(ctx)
			w.report(result, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", abs, err)
		}
	}
}

// SyncFile saves the file content as the post body if they differ.
func (w *PostWatcher) SyncFile(ctx context.Context) (domain.OutboundResult, error) {
	content, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("%s is gone, nothing to save", w.path)
		return domain.OutboundResult{Action: domain.OutboundSkipped}, nil
	}
	if err != nil {
		return domain.OutboundResult{}, fmt.Errorf("read %s: %w", w.path, err)
	}

	post, err := w.posts.Get(ctx, w.postID)
	if err != nil {
		return domain.OutboundResult{}, fmt.Errorf("get post %s: %w", w.postID, err)
	}
	if string(content) == post.Body {
		return domain.OutboundResult{Action: domain.OutboundSkipped, URL: post.GitHubURL}, nil
	}

	post.Body = string(content)
	return w.posts.Save(ctx, post, domain.SaveOptions{Origin: domain.SaveOriginLocal})
}

func (w *PostWatcher) report(result domain.OutboundResult, err error) {
	switch {
	case err != nil:
		logger.Error("save post %s: %v", w.postID, err)
	case result.Action == domain.OutboundSkipped:
		logger.Debug("Post %s unchanged or unlinked", w.postID)
	default:
		logger.Info("Saved post %s, github: %s", w.postID, result.Action)
	}
	if w.onResult != nil {
		w.onResult(result, err)
	}
}
