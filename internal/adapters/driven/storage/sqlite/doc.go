// Package sqlite provides a SQLite-based implementation of driven.PostStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Posts live in the posts table; the applied-commit ledger lives in post_commits,
// keyed by (post_id, commit_id) so recording a commit twice is a no-op.
//
// # Data Location
//
// By default, the database is stored at ~/.postsync/data/posts.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
