// Package migrations holds the numbered SQL scripts of the post store.
// Files are named NNN_name.up.sql; the store applies each version once.
package migrations

import "embed"

// FS holds the migration scripts.
//
//go:embed *.sql
var FS embed.FS
