// Package services implements the driving port interfaces.
// Services contain the core sync logic and orchestrate
// calls to driven ports (adapters).
//
// Post saves run through PostService, which hands linked posts to
// OutboundSyncService. InboundSyncService applies webhook pushes by
// saving through PostService with outbound sync suppressed.
package services
