package domain

import (
	"slices"
	"time"
)

// Post represents a blog post held in the content store.
// When GitHubURL is set, the post body is kept in sync with that file.
type Post struct {
	// ID is the unique identifier for the post.
	ID string

	// Slug is the stable, URL-friendly name of the post.
	Slug string

	// Title is the human-readable title.
	Title string

	// Body is the canonical text content.
	Body string

	// GitHubURL is the blob URL of the linked file, empty if unlinked.
	GitHubURL string

	// AppliedCommits lists the GitHub commit ids already applied to this post.
	// It is append-only and ordered by application.
	AppliedCommits []string

	// LastCommitMessage is the message of the last commit applied inbound.
	LastCommitMessage string

	// CreatedAt is when the post was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the post was last saved.
	UpdatedAt time.Time
}

// IsLinked returns true if the post is linked to a GitHub file.
func (p *Post) IsLinked() bool {
	return p.GitHubURL != ""
}

// HasCommit returns true if the commit has already been applied to the post.
func (p *Post) HasCommit(commitID string) bool {
	return slices.Contains(p.AppliedCommits, commitID)
}
