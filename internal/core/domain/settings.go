package domain

import (
	"strings"
	"time"
)

// Defaults for settings that have them.
const (
	DefaultCommitMessage = "Updating post from blog, auto-save"
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultSyncPath      = "/github/sync"
	DefaultMaxBodyBytes  = 1 << 20
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
)

// GitHubSettings holds the GitHub integration settings.
type GitHubSettings struct {
	// Token is a Personal Access Token with contents write access.
	// Without it outbound sync is disabled.
	Token string

	// WebhookSecret is the shared secret configured on the repository webhook.
	WebhookSecret string

	// APIURL is the API base URL for GitHub Enterprise. Empty means github.com.
	APIURL string

	// CommitMessage is used for commits made by outbound sync.
	CommitMessage string
}

// IsConfigured returns true if outbound sync can write to GitHub.
func (s GitHubSettings) IsConfigured() bool {
	return strings.TrimSpace(s.Token) != ""
}

// ServerSettings holds webhook server settings.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// SyncPath is the webhook endpoint path.
	SyncPath string

	// MaxBodyBytes caps the accepted webhook payload size.
	MaxBodyBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// GitHub holds GitHub integration settings.
	GitHub GitHubSettings

	// Server holds webhook server settings.
	Server ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Token and webhook secret are left unset; the user must configure them.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		GitHub: GitHubSettings{
			CommitMessage: DefaultCommitMessage,
		},
		Server: ServerSettings{
			Addr:         DefaultServerAddr,
			SyncPath:     DefaultSyncPath,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}
