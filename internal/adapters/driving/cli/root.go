// Package cli provides the postsync command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// Log rotation limits for --log-file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

// version is set at build time via -ldflags.
var version = "dev"

// Options holds the global flags shared by all commands.
type Options struct {
	ConfigDir string
	DataDir   string
	Verbose   bool
	LogFile   string
}

// CredentialChecker validates the configured GitHub token.
type CredentialChecker interface {
	ValidateCredentials(ctx context.Context) (string, error)
}

// Services bundles the core services the commands run against.
type Services struct {
	Posts    driving.PostService
	Inbound  driving.InboundSync
	Verifier driving.PushVerifier
	Settings driving.SettingsService
	GitHub   CredentialChecker
	Close    func() error
}

// Bootstrap builds Services from the parsed global flags.
type Bootstrap func(opts Options) (*Services, error)

var (
	postService     driving.PostService
	inboundSync     driving.InboundSync
	pushVerifier    driving.PushVerifier
	settingsService driving.SettingsService
	githubChecker   CredentialChecker

	bootstrap  Bootstrap
	closeFuncs []func() error
	opts       Options
)

var rootCmd = &cobra.Command{
	Use:   "postsync",
	Short: "Two-way sync between blog posts and GitHub files",
	Long: `postsync keeps blog posts and files in GitHub repositories in step.

Saving a linked post commits its body to GitHub. Pushes to a linked file,
delivered by a GitHub webhook to 'postsync serve', update the post.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "Config directory (default ~/.postsync)")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Data directory (default ~/.postsync/data)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.LogFile, "log-file", "", "Write logs to a rotating file instead of stderr")
}

// SetVersion sets the version reported by 'postsync version'.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Configure installs services directly, bypassing the bootstrap.
func Configure(s *Services) {
	if s == nil {
		return
	}
	postService = s.Posts
	inboundSync = s.Inbound
	pushVerifier = s.Verifier
	settingsService = s.Settings
	githubChecker = s.GitHub
	if s.Close != nil {
		closeFuncs = append(closeFuncs, s.Close)
	}
}

// Execute runs the root command and releases whatever setup opened.
func Execute() error {
	err := rootCmd.Execute()
	teardown()
	return err
}

// noServices marks commands that run without wiring services.
const noServices = "postsync/no-services"

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if opts.LogFile != "" {
		w := logger.NewRotatingFile(opts.LogFile, logMaxSizeMB, logMaxBackups)
		logger.SetOutput(w)
		logger.SetTimestamps(true)
		closeFuncs = append(closeFuncs, func() error {
			logger.SetOutput(os.Stderr)
			return w.Close()
		})
	}

	if bootstrap == nil || cmd.Annotations[noServices] == "true" {
		return nil
	}
	services, err := bootstrap(opts)
	if err != nil {
		return err
	}
	Configure(services)
	return nil
}

func teardown() {
	var errs []error
	for i := len(closeFuncs) - 1; i >= 0; i-- {
		if err := closeFuncs[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closeFuncs = nil
	if err := errors.Join(errs...); err != nil {
		logger.Warn("shutdown: %v", err)
	}
}
