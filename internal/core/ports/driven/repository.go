package driven

import (
	"context"

	"github.com/custodia-labs/postsync/internal/core/domain"
)

// FileRepository reads and writes single files in a GitHub repository.
type FileRepository interface {
	// GetFile fetches a file at loc.Branch.
	// Returns an error wrapping domain.ErrNotFound if the file does not exist.
	GetFile(ctx context.Context, loc domain.FileLocation) (*domain.RemoteFile, error)

	// CreateFile creates a file that does not exist yet.
	CreateFile(ctx context.Context, loc domain.FileLocation, message string, content []byte) error

	// UpdateFile replaces a file whose current blob SHA is sha.
	// Returns an error wrapping domain.ErrRemoteConflict if the file changed since.
	UpdateFile(ctx context.Context, loc domain.FileLocation, message, sha string, content []byte) error
}
