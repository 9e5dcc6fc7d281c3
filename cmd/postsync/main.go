// Command postsync keeps blog posts and GitHub files in two-way sync.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/postsync/internal/adapters/driven/alert"
	"github.com/custodia-labs/postsync/internal/adapters/driven/auth"
	"github.com/custodia-labs/postsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/postsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/postsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/postsync/internal/connectors/github"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds the service graph from the global flags.
func wire(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	posts := store.PostStore()

	var clientOpts []github.ClientOption
	if settings.GitHub.APIURL != "" {
		clientOpts = append(clientOpts, github.WithEnterpriseURL(settings.GitHub.APIURL))
	}
	client := github.NewClient(auth.NewTokenProvider(settings.GitHub), clientOpts...)
	repo := github.NewRepository(client)

	// Inbound fetches work anonymously for public repositories; writes need a token.
	var writeRepo driven.FileRepository
	if settings.GitHub.IsConfigured() {
		writeRepo = repo
	}

	alerter := alert.NewLogAlerter()
	outbound := services.NewOutboundSyncService(writeRepo, alerter, settings.GitHub.CommitMessage)
	postService := services.NewPostService(posts, outbound)

	return &cli.Services{
		Posts:    postService,
		Inbound:  services.NewInboundSyncService(posts, postService, repo, alerter),
		Verifier: services.NewSignatureVerifier(settings.GitHub.WebhookSecret),
		Settings: settingsService,
		GitHub:   client,
		Close:    store.Close,
	}, nil
}
