package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

func TestAuthStatus(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.GitHub.Token = "ghp_token"
	settings.settings.GitHub.WebhookSecret = "s3cret"
	checker := &mockChecker{login: "octocat"}
	setupServices(t, &Services{Settings: settings, GitHub: checker})

	out, _, err := execute(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Authenticated as octocat")
	assert.NotContains(t, out, "Webhook secret not set")
	assert.Equal(t, 1, checker.calls)
}

func TestAuthStatus_WarnsWithoutSecret(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.GitHub.Token = "ghp_token"
	setupServices(t, &Services{Settings: settings, GitHub: &mockChecker{login: "octocat"}})

	out, _, err := execute(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Webhook secret not set")
}

func TestAuthStatus_NoToken(t *testing.T) {
	checker := &mockChecker{login: "octocat"}
	setupServices(t, &Services{Settings: newMockSettingsService(), GitHub: checker})

	_, _, err := execute(t, "auth", "status")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteNotConfigured)
	assert.Contains(t, err.Error(), "POSTSYNC_GITHUB_TOKEN")
	assert.Zero(t, checker.calls)
}

func TestAuthStatus_Rejected(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.GitHub.Token = "ghp_token"
	setupServices(t, &Services{Settings: settings, GitHub: &mockChecker{err: domain.ErrAuthInvalid}})

	_, _, err := execute(t, "auth", "status")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Contains(t, err.Error(), "token rejected")
}

func TestAuthStatus_NotConfigured(t *testing.T) {
	setupServices(t, &Services{Settings: newMockSettingsService()})

	_, _, err := execute(t, "auth", "status")

	assert.EqualError(t, err, "github client not configured")
}
