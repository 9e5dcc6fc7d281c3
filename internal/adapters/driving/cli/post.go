package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postsync/internal/adapters/driving/watch"
	"github.com/custodia-labs/postsync/internal/core/domain"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage posts",
	Long: `Create, edit, link, and remove posts.

Posts are addressed by slug or ID. Saving a post that is linked to a GitHub
file commits the new body to that file.

Examples:
  postsync post create --title "Testing" --file testing.md
  postsync post link testing https://github.com/octo/blog/blob/main/posts/testing.md
  postsync post save testing --file testing.md
  postsync post watch testing testing.md`,
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE:  runPostList,
}

var postShowCmd = &cobra.Command{
	Use:   "show [post]",
	Short: "Show a post and its sync state",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostShow,
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	RunE:  runPostCreate,
}

var postSaveCmd = &cobra.Command{
	Use:   "save [post]",
	Short: "Update a post and sync it to GitHub",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostSave,
}

var postLinkCmd = &cobra.Command{
	Use:   "link [post] [github-url]",
	Short: "Link a post to a GitHub file",
	Long: `Link a post to a file in a GitHub repository and push the current body.

The URL must point at a file blob, for example:
  https://github.com/octo/blog/blob/main/posts/testing.md`,
	Args: cobra.ExactArgs(2),
	RunE: runPostLink,
}

var postUnlinkCmd = &cobra.Command{
	Use:   "unlink [post]",
	Short: "Stop syncing a post with GitHub",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostUnlink,
}

var postWatchCmd = &cobra.Command{
	Use:   "watch [post] [file]",
	Short: "Save a post whenever a local file changes",
	Long: `Watch a local file and save its content into the post on every write.

Each save runs the normal pipeline, so linked posts are committed to GitHub.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(2),
	RunE: runPostWatch,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete [post]",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostDelete,
}

// Flags for create and save.
var (
	postTitle string
	postSlug  string
	postBody  string
	postFile  string
	postURL   string
)

func init() {
	for _, c := range []*cobra.Command{postCreateCmd, postSaveCmd} {
		c.Flags().StringVarP(&postTitle, "title", "t", "", "Post title")
		c.Flags().StringVar(&postBody, "body", "", "Post body")
		c.Flags().StringVarP(&postFile, "file", "f", "", "Read the body from a file (- for stdin)")
	}
	postCreateCmd.Flags().StringVar(&postSlug, "slug", "", "Post slug (derived from the title when empty)")
	postCreateCmd.Flags().StringVar(&postURL, "url", "", "GitHub file URL to link the post to")

	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postSaveCmd)
	postCmd.AddCommand(postLinkCmd)
	postCmd.AddCommand(postUnlinkCmd)
	postCmd.AddCommand(postWatchCmd)
	postCmd.AddCommand(postDeleteCmd)
	rootCmd.AddCommand(postCmd)
}

func runPostList(cmd *cobra.Command, _ []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	posts, err := postService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	if len(posts) == 0 {
		cmd.Println("No posts found.")
		return nil
	}

	for i := range posts {
		cmd.Printf("  %s\n", posts[i].Slug)
		cmd.Printf("    Title: %s\n", posts[i].Title)
		if posts[i].IsLinked() {
			cmd.Printf("    GitHub: %s\n", posts[i].GitHubURL)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d posts\n", len(posts))
	return nil
}

func runPostShow(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:       %s\n", post.ID)
	cmd.Printf("Slug:     %s\n", post.Slug)
	cmd.Printf("Title:    %s\n", post.Title)
	if post.IsLinked() {
		cmd.Printf("GitHub:   %s\n", post.GitHubURL)
	} else {
		cmd.Println("GitHub:   (not linked)")
	}
	if post.LastCommitMessage != "" {
		cmd.Printf("Commit:   %s\n", post.LastCommitMessage)
	}
	cmd.Printf("Applied:  %d commits\n", len(post.AppliedCommits))
	cmd.Printf("Created:  %s\n", post.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated:  %s\n", post.UpdatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println(post.Body)
	return nil
}

func runPostCreate(cmd *cobra.Command, _ []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	body, err := readBody(cmd)
	if err != nil {
		return err
	}

	post := &domain.Post{
		Title:     postTitle,
		Slug:      postSlug,
		Body:      body,
		GitHubURL: postURL,
	}
	result, err := postService.Create(cmd.Context(), post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	cmd.Printf("Created post %s (%s)\n", post.Slug, post.ID)
	printOutbound(cmd, result)
	return nil
}

func runPostSave(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		post.Title = postTitle
	}
	if cmd.Flags().Changed("body") || cmd.Flags().Changed("file") {
		body, err := readBody(cmd)
		if err != nil {
			return err
		}
		post.Body = body
	}

	result, err := postService.Save(cmd.Context(), post, domain.SaveOptions{Origin: domain.SaveOriginLocal})
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}

	cmd.Printf("Saved post %s\n", post.Slug)
	printOutbound(cmd, result)
	return nil
}

func runPostLink(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	result, err := postService.Link(cmd.Context(), post.ID, args[1])
	if err != nil {
		return fmt.Errorf("failed to link post: %w", err)
	}

	cmd.Printf("Linked post %s to %s\n", post.Slug, args[1])
	printOutbound(cmd, result)
	return nil
}

func runPostUnlink(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := postService.Unlink(cmd.Context(), post.ID); err != nil {
		return fmt.Errorf("failed to unlink post: %w", err)
	}

	cmd.Printf("Unlinked post %s\n", post.Slug)
	return nil
}

func runPostWatch(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := watch.NewPostWatcher(postService, post.ID, args[1],
		watch.WithResultHandler(func(result domain.OutboundResult, err error) {
			if err != nil {
				cmd.PrintErrf("Save failed: %v\n", err)
				return
			}
			cmd.Printf("Saved post %s\n", post.Slug)
			printOutbound(cmd, result)
		}),
	)

	cmd.Printf("Watching %s for post %s (Ctrl+C to stop)\n", args[1], post.Slug)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	if postService == nil {
		return errors.New("post service not configured")
	}

	post, err := resolvePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := postService.Delete(cmd.Context(), post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	cmd.Printf("Deleted post %s\n", post.Slug)
	return nil
}

// resolvePost looks a post up by slug first, then by ID.
func resolvePost(ctx context.Context, ref string) (*domain.Post, error) {
	post, err := postService.GetBySlug(ctx, ref)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post, err = postService.Get(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("post %q: %w", ref, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// readBody returns the body from --file, falling back to --body.
func readBody(cmd *cobra.Command) (string, error) {
	switch postFile {
	case "":
		return postBody, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(postFile)
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		return string(data), nil
	}
}

func printOutbound(cmd *cobra.Command, result domain.OutboundResult) {
	switch result.Action {
	case domain.OutboundCreated:
		cmd.Printf("Created %s\n", result.URL)
	case domain.OutboundUpdated:
		cmd.Printf("Updated %s\n", result.URL)
	case domain.OutboundUnchanged:
		cmd.Printf("Already up to date: %s\n", result.URL)
	case domain.OutboundFailed:
		cmd.PrintErrf("GitHub sync failed: %v\n", result.Err)
	case domain.OutboundSkipped:
		if result.URL != "" {
			cmd.Println("GitHub not configured, not synced.")
		}
	}
}
