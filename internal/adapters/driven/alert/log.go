// Package alert provides driven.Alerter implementations.
package alert

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/postsync/internal/core/ports/driven"
	"github.com/custodia-labs/postsync/internal/logger"
)

// Ensure LogAlerter implements the interface.
var _ driven.Alerter = (*LogAlerter)(nil)

// LogAlerter writes sync failures to the error log and counts them.
type LogAlerter struct {
	failures atomic.Int64
}

// NewLogAlerter creates a new log alerter.
func NewLogAlerter() *LogAlerter {
	return &LogAlerter{}
}

// ReportFailure logs err at error level.
func (a *LogAlerter) ReportFailure(_ context.Context, err error) {
	if err == nil {
		return
	}
	a.failures.Add(1)
	logger.Error("sync failed: %v", err)
}

// Failures returns the number of failures reported so far.
func (a *LogAlerter) Failures() int64 {
	return a.failures.Load()
}
