// Package file stores postsync settings in a TOML file.
//
// Keys use dotted names ("github.token", "server.addr") and are written as
// nested tables, so the file reads naturally when edited by hand:
//
//	[github]
//	webhook_secret = "..."
//
//	[server]
//	addr = "127.0.0.1:8080"
//
// The file is created with 0600 permissions because it may hold a token.
package file
