// Package driving defines the interfaces that the outside world calls INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The webhook server, the CLI and the file watcher depend on these
// interfaces; core services implement them.
//
//   - PostService: Post management and the save pipeline
//   - InboundSync: Applies GitHub push notifications
//   - OutboundSync: Pushes a saved post to GitHub
//   - PushVerifier: Authenticates webhook requests
//   - SettingsService: Typed application settings
package driving
