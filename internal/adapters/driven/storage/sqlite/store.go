package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/postsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driven"
)

// Store is a SQLite-based post store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.postsync/data/posts.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".postsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "posts.db")

	// WAL lets the webhook server read while the CLI writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PostStore returns a PostStore interface backed by this store.
func (s *Store) PostStore() driven.PostStore {
	return &postStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Post Store ====================

// postStore implements driven.PostStore.
type postStore struct {
	store *Store
}

var _ driven.PostStore = (*postStore)(nil)

const postColumns = `id, slug, title, body, github_url, last_commit_message, created_at, updated_at`

// Save stores or updates a post. The applied-commit ledger is not touched.
func (s *postStore) Save(ctx context.Context, post *domain.Post) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var owner string
	err = tx.QueryRowContext(ctx, "SELECT id FROM posts WHERE slug = ? AND id != ?", post.Slug, post.ID).Scan(&owner)
	if err == nil {
		return fmt.Errorf("%w: slug %q", domain.ErrAlreadyExists, post.Slug)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking slug: %w", err)
	}

	if post.GitHubURL != "" {
		err = tx.QueryRowContext(ctx, "SELECT id FROM posts WHERE github_url = ? AND id != ?",
			post.GitHubURL, post.ID).Scan(&owner)
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, post.GitHubURL)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking github url: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			body = excluded.body,
			github_url = excluded.github_url,
			last_commit_message = excluded.last_commit_message,
			updated_at = excluded.updated_at
	`, post.ID, post.Slug, post.Title, post.Body, nullString(post.GitHubURL),
		post.LastCommitMessage, post.CreatedAt.UTC(), post.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a post by ID.
func (s *postStore) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.getWhere(ctx, "id = ?", id)
}

// GetBySlug retrieves a post by slug.
func (s *postStore) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.getWhere(ctx, "slug = ?", slug)
}

// FindByGitHubURL retrieves the post linked to a GitHub file URL.
func (s *postStore) FindByGitHubURL(ctx context.Context, url string) (*domain.Post, error) {
	if url == "" {
		return nil, domain.ErrNotFound
	}
	return s.getWhere(ctx, "github_url = ?", url)
}

// AppendCommit records a commit as applied to a post.
func (s *postStore) AppendCommit(ctx context.Context, postID, commitID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id = ?", postID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("checking post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO post_commits (post_id, commit_id, position)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM post_commits WHERE post_id = ?
	`, postID, commitID, postID)
	if err != nil {
		return fmt.Errorf("recording commit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// List returns all posts ordered by slug.
func (s *postStore) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post //nolint:prealloc // size unknown from query
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	rows.Close()

	for i := range posts {
		commits, err := s.commits(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].AppliedCommits = commits
	}
	return posts, nil
}

// Delete removes a post and its ledger.
func (s *postStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postStore) getWhere(ctx context.Context, where string, arg any) (*domain.Post, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE "+where, arg)
	post, err := scanPost(row)
	if err != nil {
		return nil, err
	}
	commits, err := s.commits(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.AppliedCommits = commits
	return post, nil
}

// commits returns the ledger of a post in application order.
func (s *postStore) commits(ctx context.Context, postID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT commit_id FROM post_commits WHERE post_id = ? ORDER BY position", postID)
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var commits []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		commits = append(commits, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}
	return commits, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var post domain.Post
	var githubURL sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Body, &githubURL,
		&post.LastCommitMessage, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	post.GitHubURL = githubURL.String
	if createdAt.Valid {
		post.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		post.UpdatedAt = updatedAt.Time
	}
	return &post, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
