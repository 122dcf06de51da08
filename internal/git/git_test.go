// Package git tests release tag lookup against throwaway repositories.
// Related: internal/git/git.go
// Tags: git, tags, release

package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/item-network/modpack/internal/changelog"
)

// initRepo creates a repository with one commit and the given lightweight tags.
func initRepo(t *testing.T, tags ...string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), []byte("{}"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("info.json")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

func TestReleaseTags(t *testing.T) {
	dir := initRepo(t, "v0.2.0", "0.10.0", "v0.3.1", "nightly", "v1.0")

	tags, err := ReleaseTags(dir)
	require.NoError(t, err)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
		assert.NotEqual(t, plumbing.ZeroHash, tag.Hash)
	}
	assert.Equal(t, []string{"0.10.0", "v0.3.1", "v0.2.0"}, names)
}

func TestLatestReleaseTag(t *testing.T) {
	tests := map[string]struct {
		tags    []string
		want    changelog.VersionID
		wantErr error
	}{
		"highest wins": {
			tags: []string{"v0.3.1", "v0.2.2"},
			want: changelog.NewVersionID(0, 3, 1),
		},
		"no tags": {
			wantErr: ErrNoReleaseTags,
		},
		"only non-release tags": {
			tags:    []string{"latest", "unreleased"},
			wantErr: ErrNoReleaseTags,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := initRepo(t, tt.tags...)

			tag, err := LatestReleaseTag(dir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag.Version)
		})
	}
}

func TestRepositoryRoot(t *testing.T) {
	dir := initRepo(t)
	sub := filepath.Join(dir, "locale", "en")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := RepositoryRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	assert.True(t, IsGitRepository(sub))
}

func TestOpenRepo_NotARepository(t *testing.T) {
	assert.False(t, IsGitRepository(t.TempDir()))

	_, err := ReleaseTags(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening repository")
}
