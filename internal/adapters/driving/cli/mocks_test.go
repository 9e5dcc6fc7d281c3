package cli

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
)

// mockPostService implements driving.PostService for testing.
type mockPostService struct {
	posts   map[string]*domain.Post
	result  domain.OutboundResult
	saveErr error
	saves   []domain.SaveOptions
	links   []string
}

var _ driving.PostService = (*mockPostService)(nil)

func newMockPostService(posts ...domain.Post) *mockPostService {
	m := &mockPostService{posts: make(map[string]*domain.Post)}
	for i := range posts {
		p := posts[i]
		m.posts[p.ID] = &p
	}
	return m
}

func (m *mockPostService) Create(_ context.Context, post *domain.Post) (domain.OutboundResult, error) {
	if m.saveErr != nil {
		return domain.OutboundResult{}, m.saveErr
	}
	if post.ID == "" {
		post.ID = "post-" + post.Slug
	}
	if post.Slug == "" {
		post.Slug = "generated"
	}
	p := *post
	m.posts[p.ID] = &p
	return m.result, nil
}

func (m *mockPostService) Get(_ context.Context, id string) (*domain.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockPostService) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPostService) List(_ context.Context) ([]domain.Post, error) {
	posts := make([]domain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Slug < posts[j].Slug })
	return posts, nil
}

func (m *mockPostService) Save(
	_ context.Context,
	post *domain.Post,
	opts domain.SaveOptions,
) (domain.OutboundResult, error) {
	if m.saveErr != nil {
		return domain.OutboundResult{}, m.saveErr
	}
	m.saves = append(m.saves, opts)
	p := *post
	m.posts[p.ID] = &p
	return m.result, nil
}

func (m *mockPostService) Link(_ context.Context, id, url string) (domain.OutboundResult, error) {
	p, ok := m.posts[id]
	if !ok {
		return domain.OutboundResult{}, domain.ErrNotFound
	}
	p.GitHubURL = url
	m.links = append(m.links, url)
	return m.result, nil
}

func (m *mockPostService) Unlink(_ context.Context, id string) error {
	p, ok := m.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.GitHubURL = ""
	return nil
}

func (m *mockPostService) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	sets     map[string]string
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		sets:     make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"github.token", "server.addr"}
}

// mockChecker implements CredentialChecker for testing.
type mockChecker struct {
	login string
	err   error
	calls int
}

func (m *mockChecker) ValidateCredentials(_ context.Context) (string, error) {
	m.calls++
	return m.login, m.err
}

// setupServices swaps the package services for the test and restores them on cleanup.
func setupServices(t *testing.T, s *Services) {
	t.Helper()
	oldPosts, oldInbound, oldVerifier := postService, inboundSync, pushVerifier
	oldSettings, oldChecker := settingsService, githubChecker
	postService = s.Posts
	inboundSync = s.Inbound
	pushVerifier = s.Verifier
	settingsService = s.Settings
	githubChecker = s.GitHub
	t.Cleanup(func() {
		postService, inboundSync, pushVerifier = oldPosts, oldInbound, oldVerifier
		settingsService, githubChecker = oldSettings, oldChecker
	})
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	postTitle, postSlug, postBody, postFile, postURL = "", "", "", "", ""
	serveAddr = ""
	resetChanged(rootCmd)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetChanged clears the Changed mark cobra leaves on flags between executions.
func resetChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, c := range cmd.Commands() {
		resetChanged(c)
	}
}
