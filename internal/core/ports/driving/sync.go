package driving

import (
	"context"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// PushVerifier authenticates webhook requests against the shared secret.
type PushVerifier interface {
	// Verify reports whether signature matches the raw, unparsed body.
	Verify(body []byte, signature string) bool
}

// InboundSync applies GitHub push notifications to linked posts.
type InboundSync interface {
	// ApplyPush processes every commit and modified path of a push.
	// Per-item failures are reported out of band and do not fail the call.
	ApplyPush(ctx context.Context, event *domain.PushEvent) (*domain.InboundResult, error)
}

// OutboundSync writes a saved post to its linked GitHub file.
type OutboundSync interface {
	// SyncPost creates or updates the linked file. Failures are reported
	// out of band and returned in the result.
	SyncPost(ctx context.Context, post *domain.Post) domain.OutboundResult
}
