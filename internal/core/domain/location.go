package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// branchRefPrefix is stripped from push refs to get the branch name.
const branchRefPrefix = "refs/heads/"

// FileLocation identifies a file on a branch of a GitHub repository.
type FileLocation struct {
	// Scheme and Host of the web URL, e.g. "https" and "github.com".
	Scheme string
	Host   string

	// Owner and Repo name the repository.
	Owner string
	Repo  string

	// Branch is the ref the file is read from and written to.
	Branch string

	// Path is the file path within the repository, without a leading slash.
	Path string
}

// Repository returns the "owner/repo" form of the location.
func (l FileLocation) Repository() string {
	return l.Owner + "/" + l.Repo
}

// URL renders the blob URL of the file.
// It is the value stored in Post.GitHubURL. Every component is escaped, so
// ParseFileURL(l.URL()) returns l even for names holding '#', '?', '%' or '/'.
func (l FileLocation) URL() string {
	scheme := l.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s/blob/%s/%s", scheme, l.Host,
		url.PathEscape(l.Owner), url.PathEscape(l.Repo), url.PathEscape(l.Branch), escapePath(l.Path))
}

// BranchFromRef returns the branch name of a push ref ("refs/heads/main" -> "main").
// Refs outside refs/heads/ are returned unchanged.
func BranchFromRef(ref string) string {
	return strings.TrimPrefix(ref, branchRefPrefix)
}

// FileURL maps a changed path in a push to the URL a linked post would carry.
// repositoryURL is the repository's web URL as sent in the push payload.
func FileURL(repositoryURL, ref, path string) string {
	return trimRepositoryURL(repositoryURL) + "/blob/" + url.PathEscape(BranchFromRef(ref)) + "/" + escapePath(path)
}

// PushFileLocation builds the location of a path changed by a push.
// Its URL equals FileURL(repositoryURL, ref, path) for a repository web URL.
func PushFileLocation(repositoryURL, ref, path string) (FileLocation, error) {
	u, err := url.Parse(trimRepositoryURL(repositoryURL))
	if err != nil {
		return FileLocation{}, fmt.Errorf("%w: repository %v", ErrInvalidFileURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Host == "" || len(parts) != 2 {
		return FileLocation{}, fmt.Errorf("%w: %q is not a repository url", ErrInvalidFileURL, repositoryURL)
	}

	loc := FileLocation{
		Scheme: u.Scheme,
		Host:   u.Host,
		Owner:  parts[0],
		Repo:   parts[1],
		Branch: BranchFromRef(ref),
		Path:   strings.TrimPrefix(path, "/"),
	}
	if loc.Owner == "" || loc.Repo == "" || loc.Branch == "" || loc.Path == "" {
		return FileLocation{}, fmt.Errorf("%w: push to %q has empty components", ErrInvalidFileURL, repositoryURL)
	}
	return loc, nil
}

func trimRepositoryURL(repositoryURL string) string {
	return strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(repositoryURL), "/"), ".git")
}

// escapePath escapes each segment of a repository path, keeping the slashes.
func escapePath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// ParseFileURL splits a blob URL into its location parts.
// e.g. https://github.com/konklone/konklone/blob/master/posts/testing.md
// The branch is the single segment after "blob"; a branch holding a slash
// must be written escaped ("feature%2Fx"), as URL renders it.
func ParseFileURL(raw string) (FileLocation, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return FileLocation{}, fmt.Errorf("%w: %v", ErrInvalidFileURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return FileLocation{}, fmt.Errorf("%w: %q is not an http(s) url", ErrInvalidFileURL, raw)
	}

	// "", owner, repo, "blob", branch, path...
	parts := strings.Split(u.EscapedPath(), "/")
	if len(parts) < 6 || parts[3] != "blob" {
		return FileLocation{}, fmt.Errorf("%w: %q is not a blob url", ErrInvalidFileURL, raw)
	}
	for i, part := range parts {
		if parts[i], err = url.PathUnescape(part); err != nil {
			return FileLocation{}, fmt.Errorf("%w: %v", ErrInvalidFileURL, err)
		}
	}

	loc := FileLocation{
		Scheme: u.Scheme,
		Host:   u.Host,
		Owner:  parts[1],
		Repo:   parts[2],
		Branch: parts[4],
		Path:   strings.Join(parts[5:], "/"),
	}
	if loc.Owner == "" || loc.Repo == "" || loc.Branch == "" || loc.Path == "" {
		return FileLocation{}, fmt.Errorf("%w: %q has empty components", ErrInvalidFileURL, raw)
	}
	return loc, nil
}
