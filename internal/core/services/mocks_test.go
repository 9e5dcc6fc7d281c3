package services

import (
	"context"
	"crypto/sha1" //nolint:gosec // blob ids in tests only
	"encoding/hex"
	"fmt"
	stdsync "sync"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// --- Mock implementations shared by the sync tests ---

// mockFileRepository implements driven.FileRepository over a map of files keyed by URL.
type mockFileRepository struct {
	mu      stdsync.Mutex
	files   map[string]domain.RemoteFile
	getErr  error
	putErr  error
	gets    []string
	creates []string
	updates []mockUpdate
	paths   []string
}

type mockUpdate struct {
	URL     string
	SHA     string
	Message string
	Content string
}

var _ driven.FileRepository = (*mockFileRepository)(nil)

func newMockFileRepository() *mockFileRepository {
	return &mockFileRepository{files: make(map[string]domain.RemoteFile)}
}

// put seeds a file as if it had been pushed to GitHub.
func (m *mockFileRepository) put(url, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[url] = domain.RemoteFile{SHA: blobSHA(content), Content: []byte(content)}
}

func (m *mockFileRepository) content(url string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[url]
	return string(f.Content), ok
}

func (m *mockFileRepository) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creates) + len(m.updates)
}

// pathsSeen returns the repository paths of every call, in order.
func (m *mockFileRepository) pathsSeen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

func (m *mockFileRepository) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gets) + len(m.creates) + len(m.updates)
}

func (m *mockFileRepository) GetFile(_ context.Context, loc domain.FileLocation) (*domain.RemoteFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := loc.URL()
	m.paths = append(m.paths, loc.Path)
	m.gets = append(m.gets, url)
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.files[url]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", url, domain.ErrNotFound)
	}
	return &domain.RemoteFile{SHA: f.SHA, Content: append([]byte(nil), f.Content...)}, nil
}

func (m *mockFileRepository) CreateFile(_ context.Context, loc domain.FileLocation, _ string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := loc.URL()
	m.paths = append(m.paths, loc.Path)
	m.creates = append(m.creates, url)
	if m.putErr != nil {
		return m.putErr
	}
	m.files[url] = domain.RemoteFile{SHA: blobSHA(string(content)), Content: content}
	return nil
}

func (m *mockFileRepository) UpdateFile(
	_ context.Context, loc domain.FileLocation, message, sha string, content []byte,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := loc.URL()
	m.paths = append(m.paths, loc.Path)
	m.updates = append(m.updates, mockUpdate{URL: url, SHA: sha, Message: message, Content: string(content)})
	if m.putErr != nil {
		return m.putErr
	}
	if current, ok := m.files[url]; !ok || current.SHA != sha {
		return fmt.Errorf("update %s: %w", url, domain.ErrRemoteConflict)
	}
	m.files[url] = domain.RemoteFile{SHA: blobSHA(string(content)), Content: content}
	return nil
}

func blobSHA(content string) string {
	sum := sha1.Sum([]byte(content)) //nolint:gosec // blob ids in tests only
	return hex.EncodeToString(sum[:])
}

// recordingAlerter implements driven.Alerter and keeps every reported error.
type recordingAlerter struct {
	mu     stdsync.Mutex
	errors []error
}

var _ driven.Alerter = (*recordingAlerter)(nil)

func (a *recordingAlerter) ReportFailure(_ context.Context, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, err)
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errors)
}

// failingPostStore wraps a PostStore and fails selected operations.
type failingPostStore struct {
	driven.PostStore
	saveErr   error
	appendErr error
	failSlug  string
}

func (s *failingPostStore) Save(ctx context.Context, post *domain.Post) error {
	if s.saveErr != nil && (s.failSlug == "" || s.failSlug == post.Slug) {
		return s.saveErr
	}
	return s.PostStore.Save(ctx, post)
}

func (s *failingPostStore) AppendCommit(ctx context.Context, postID, commitID string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	return s.PostStore.AppendCommit(ctx, postID, commitID)
}
