// Package git looks up release tags with go-git, so the changelog can be
// cross-checked against what was actually tagged. No git CLI is required.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/item-network/modpack/internal/changelog"
)

// ErrNoReleaseTags is returned when a repository has no version tags.
var ErrNoReleaseTags = errors.New("no release tags found")

// Tag is a git tag whose name is a release version ("v0.5.1" or "0.5.1").
type Tag struct {
	Name    string
	Version changelog.VersionID
	Hash    plumbing.Hash
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	slog.Debug("opening repository", "path", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsGitRepository reports whether path is inside a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// RepositoryRoot returns the absolute path to the repository root.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// ReleaseTags returns the tags named after a release version, newest first.
// Other tags are ignored.
func ReleaseTags(path string) ([]Tag, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	refs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	var tags []Tag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		id, err := changelog.ParseVersionID(name)
		if err != nil || !id.IsRelease() {
			slog.Debug("skipping non-release tag", "tag", name)
			return nil
		}
		tags = append(tags, Tag{Name: name, Version: id, Hash: ref.Hash()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	slices.SortStableFunc(tags, func(a, b Tag) int {
		return b.Version.Compare(a.Version)
	})
	return tags, nil
}

// LatestReleaseTag returns the highest release tag.
func LatestReleaseTag(path string) (Tag, error) {
	tags, err := ReleaseTags(path)
	if err != nil {
		return Tag{}, err
	}
	if len(tags) == 0 {
		return Tag{}, ErrNoReleaseTags
	}
	return tags[0], nil
}
