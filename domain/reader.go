package domain

import "context"

// RepositoryReader abstracts read access to a single hosted repository.
// Implementations own their caching; callers may invoke the same operation
// repeatedly without triggering redundant network calls.
type RepositoryReader interface {
	// Info returns the repository metadata. The first call fetches it,
	// subsequent calls return the cached value.
	Info(ctx context.Context) (*RepositoryInfo, error)

	// CommitHistory returns up to limit commits, most recent first.
	CommitHistory(ctx context.Context, limit int) ([]Commit, error)

	// ListFiles returns up to maxFiles file entries. When extensions is
	// non-empty, only files whose extension is in the list are returned.
	ListFiles(ctx context.Context, maxFiles int, extensions []string) ([]FileEntry, error)

	// FileContent returns the decoded text of a file. An empty string with
	// a nil error means the content is absent (directory, binary file,
	// empty file); a single unreadable file must not abort a run.
	FileContent(ctx context.Context, path string) (string, error)
}
