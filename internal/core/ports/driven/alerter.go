package driven

import "context"

// Alerter reports failures that must not interrupt the caller.
// ReportFailure never blocks for long and never fails.
type Alerter interface {
	ReportFailure(ctx context.Context, err error)
}
