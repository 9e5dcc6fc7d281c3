package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change postsync settings.

Settings are stored in ~/.postsync/config.toml. The GitHub token and webhook
secret can also come from the POSTSYNC_GITHUB_TOKEN and POSTSYNC_WEBHOOK_SECRET
environment variables, which take precedence over the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a single setting. An empty value resets the key to its default.

Keys:
  github.token            Personal access token used to commit posts
  github.webhook_secret   Shared secret for webhook signatures
  github.api_url          GitHub Enterprise API URL
  github.commit_message   Message for commits made on save
  server.addr             Listen address for 'postsync serve'
  server.sync_path        Webhook path
  server.max_body_bytes   Largest accepted webhook body`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("GitHub:")
	if settings.GitHub.Token != "" {
		cmd.Printf("  Token:          %s\n", maskSecret(settings.GitHub.Token))
	} else {
		cmd.Println("  Token:          (not set)")
	}
	if settings.GitHub.WebhookSecret != "" {
		cmd.Printf("  Webhook secret: %s\n", maskSecret(settings.GitHub.WebhookSecret))
	} else {
		cmd.Println("  Webhook secret: (not set)")
	}
	if settings.GitHub.APIURL != "" {
		cmd.Printf("  API URL:        %s\n", settings.GitHub.APIURL)
	}
	cmd.Printf("  Commit message: %s\n", settings.GitHub.CommitMessage)
	cmd.Println()
	cmd.Println("Server:")
	cmd.Printf("  Address:        %s\n", settings.Server.Addr)
	cmd.Printf("  Sync path:      %s\n", settings.Server.SyncPath)
	cmd.Printf("  Max body bytes: %d\n", settings.Server.MaxBodyBytes)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], strings.TrimSpace(args[1])
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w\nvalid keys: %s", key, err, strings.Join(settingsService.Keys(), ", "))
	}

	if value == "" {
		cmd.Printf("Reset %s\n", key)
		return nil
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// maskSecret hides all but the ends of a token.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
