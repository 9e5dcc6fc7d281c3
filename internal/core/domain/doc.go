// Package domain defines the core business entities for postsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Post: A blog post that may be linked to a file in a GitHub repository
//   - FileLocation: The repository, branch and path a post is linked to
//   - PushEvent: An inbound push notification from GitHub
//   - RemoteFile: The current state of a linked file on GitHub
//   - SaveOptions: Who initiated a save, and whether outbound sync runs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
