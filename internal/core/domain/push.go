package domain

// GitHub webhook event types handled by the sync endpoint.
const (
	// EventPush is sent when commits are pushed to a branch.
	EventPush = "push"

	// EventPing is sent when a webhook is created, as a health check.
	EventPing = "ping"
)

// PushEvent is the subset of a GitHub push payload needed for sync.
type PushEvent struct {
	// Ref is the full ref that was pushed, e.g. "refs/heads/main".
	Ref string `json:"ref"`

	// Repository describes the repository the push happened on.
	Repository PushRepository `json:"repository"`

	// Commits are listed oldest first.
	Commits []PushCommit `json:"commits"`
}

// PushRepository identifies the pushed repository.
type PushRepository struct {
	// URL is the repository's web URL, e.g. "https://github.com/owner/repo".
	URL string `json:"url"`

	// FullName is "owner/repo". Informational only.
	FullName string `json:"full_name,omitempty"`
}

// PushCommit is a single commit in a push.
type PushCommit struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Modified []string `json:"modified"`
}

// Branch returns the branch name the push was made to.
func (e *PushEvent) Branch() string {
	return BranchFromRef(e.Ref)
}
