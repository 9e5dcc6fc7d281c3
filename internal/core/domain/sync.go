package domain

// RemoteFile is the current state of a file on GitHub.
type RemoteFile struct {
	// SHA is the blob SHA, required to update the file.
	SHA string

	// Content is the decoded file content.
	Content []byte
}

// SaveOrigin records who initiated a save.
type SaveOrigin int

const (
	// SaveOriginLocal is a save made by an editor, the CLI or the file watcher.
	SaveOriginLocal SaveOrigin = iota

	// SaveOriginInbound is a save made while applying a GitHub push.
	SaveOriginInbound
)

// String returns the string representation.
func (o SaveOrigin) String() string {
	switch o {
	case SaveOriginLocal:
		return "local"
	case SaveOriginInbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// SaveOptions is passed with each save.
// It scopes outbound suppression to a single call.
type SaveOptions struct {
	Origin SaveOrigin
}

// SuppressOutbound returns true if this save must not trigger outbound sync.
func (o SaveOptions) SuppressOutbound() bool {
	return o.Origin == SaveOriginInbound
}

// SyncUpdate describes one post updated by an inbound push.
type SyncUpdate struct {
	Post    string `json:"post"`
	URL     string `json:"url"`
	Message string `json:"message"`
	Commit  string `json:"commit"`
}

// InboundResult summarises one push notification.
// Only Updated is part of the webhook response.
type InboundResult struct {
	Updated []SyncUpdate `json:"updated"`
	Skipped int          `json:"-"`
	Failed  int          `json:"-"`
}

// OutboundAction is what outbound sync did for a save.
type OutboundAction string

const (
	// OutboundSkipped means the post is unlinked, GitHub is not configured, or the save was inbound.
	OutboundSkipped OutboundAction = "skipped"

	// OutboundUnchanged means the remote file already had the post body.
	OutboundUnchanged OutboundAction = "unchanged"

	// OutboundCreated means the remote file did not exist and was created.
	OutboundCreated OutboundAction = "created"

	// OutboundUpdated means the remote file was updated.
	OutboundUpdated OutboundAction = "updated"

	// OutboundFailed means the write failed; Err holds the cause.
	OutboundFailed OutboundAction = "failed"
)

// OutboundResult is the outcome of an outbound sync.
// A failure never affects the local save that triggered it.
type OutboundResult struct {
	Action OutboundAction
	URL    string
	Err    error
}
