package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check GitHub authentication",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Verify the configured GitHub token",
	Long: `Call the GitHub API with the configured token and print the account it
belongs to. Saving linked posts needs a token with write access to the
repository contents.`,
	RunE: runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if githubChecker == nil {
		return errors.New("github client not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.GitHub.IsConfigured() {
		return fmt.Errorf("%w: set POSTSYNC_GITHUB_TOKEN or run 'postsync config set github.token <token>'",
			domain.ErrRemoteNotConfigured)
	}

	login, err := githubChecker.ValidateCredentials(cmd.Context())
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	cmd.Printf("Authenticated as %s\n", login)
	if settings.GitHub.WebhookSecret == "" {
		cmd.Println("Webhook secret not set; 'postsync serve' will reject every delivery.")
	}
	return nil
}
