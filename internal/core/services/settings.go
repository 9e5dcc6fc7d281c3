package services

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyGitHubToken         = "github.token"
	KeyGitHubWebhookSecret = "github.webhook_secret"
	KeyGitHubAPIURL        = "github.api_url"
	KeyGitHubCommitMessage = "github.commit_message"
	KeyServerAddr          = "server.addr"
	KeyServerSyncPath      = "server.sync_path"
	KeyServerMaxBodyBytes  = "server.max_body_bytes"
)

// Environment variables that take precedence over the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGitHubToken   = "POSTSYNC_GITHUB_TOKEN"
	EnvWebhookSecret = "POSTSYNC_WEBHOOK_SECRET"
)

// settableKeys lists the keys accepted by Set, in display order.
var settableKeys = []string{
	KeyGitHubToken,
	KeyGitHubWebhookSecret,
	KeyGitHubAPIURL,
	KeyGitHubCommitMessage,
	KeyServerAddr,
	KeyServerSyncPath,
	KeyServerMaxBodyBytes,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Unset values take their defaults; environment variables override the file.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		GitHub: domain.GitHubSettings{
			Token:         s.getEnvOrString(EnvGitHubToken, KeyGitHubToken),
			WebhookSecret: s.getEnvOrString(EnvWebhookSecret, KeyGitHubWebhookSecret),
			APIURL:        s.configStore.GetString(KeyGitHubAPIURL),
			CommitMessage: s.getString(KeyGitHubCommitMessage, defaults.GitHub.CommitMessage),
		},
		Server: domain.ServerSettings{
			Addr:         s.getString(KeyServerAddr, defaults.Server.Addr),
			SyncPath:     s.getString(KeyServerSyncPath, defaults.Server.SyncPath),
			MaxBodyBytes: s.getInt64(KeyServerMaxBodyBytes, defaults.Server.MaxBodyBytes),
		},
	}

	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	if !slices.Contains(settableKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var stored any = value
	switch key {
	case KeyServerMaxBodyBytes:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyServerSyncPath:
		if !strings.HasPrefix(value, "/") {
			return fmt.Errorf("%w: %s must start with /", domain.ErrInvalidInput, key)
		}
	case KeyGitHubAPIURL:
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%w: %s must be an absolute url", domain.ErrInvalidInput, key)
			}
		}
	}

	if value == "" {
		return s.configStore.Delete(key)
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settableKeys)
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getEnvOrString(env, key string) string {
	if v := s.getenv(env); v != "" {
		return v
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt64(key string, fallback int64) int64 {
	if v := s.configStore.GetInt(key); v > 0 {
		return int64(v)
	}
	return fallback
}
