package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Webhook Errors.

	// ErrInvalidSignature indicates a webhook request was not signed with the shared secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrUnsupportedEvent indicates a webhook event type other than push or ping.
	ErrUnsupportedEvent = errors.New("unsupported webhook event")

	// ErrInvalidFileURL indicates a GitHub URL that does not point at a file blob.
	ErrInvalidFileURL = errors.New("invalid github file url")

	// Remote Errors.

	// ErrRemoteNotConfigured indicates no GitHub integration is configured.
	ErrRemoteNotConfigured = errors.New("github integration not configured")

	// ErrRemoteConflict indicates the remote file changed since its version was fetched.
	ErrRemoteConflict = errors.New("remote file changed concurrently")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthRequired indicates an operation needs a token but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")
)
