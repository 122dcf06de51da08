package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/item-network/modpack/internal/changelog"
)

const sourceYAML = `versions:
  - version: unreleased
    changes:
      bugfixes: ["Fixed a crash."]
  - version: 0.5.1
    date: 2023-07-29
    changes:
      changes: ["Increased Network Tank health from 10 -> 200."]
  - version: 0.5.0
    date: 2023-07-29
    changes:
      features: ["Added tooltips to items and fluids in the Network View."]
`

func manifestJSON(version string) string {
	return `{"name": "item-network", "version": "` + version + `", "title": "Item Network", "author": "me"}`
}

// modDir creates a mod directory holding a changelog source and info.json.
func modDir(t *testing.T, source, manifestVersion string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultSource), []byte(source), 0o644))
	if manifestVersion != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "info.json"), []byte(manifestJSON(manifestVersion)), 0o644))
	}
	return dir
}

func TestOptions_Paths(t *testing.T) {
	tests := map[string]struct {
		opts       Options
		wantSource string
		wantOutput string
	}{
		"defaults": {
			opts:       Options{},
			wantSource: "changelog.yaml",
			wantOutput: "changelog.txt",
		},
		"relative to dir": {
			opts:       Options{Dir: "mods/item-network", Source: "notes.yaml"},
			wantSource: filepath.Join("mods/item-network", "notes.yaml"),
			wantOutput: filepath.Join("mods/item-network", "changelog.txt"),
		},
		"absolute kept": {
			opts:       Options{Dir: "mods", Source: "/src/c.yaml", Output: "/out/c.txt"},
			wantSource: "/src/c.yaml",
			wantOutput: "/out/c.txt",
		},
		"url kept": {
			opts:       Options{Dir: "mods", Source: "https://example.com/c.yaml"},
			wantSource: "https://example.com/c.yaml",
			wantOutput: filepath.Join("mods", "changelog.txt"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.wantSource, tt.opts.SourcePath())
			assert.Equal(t, tt.wantOutput, tt.opts.OutputPath())
		})
	}
}

func TestBuild(t *testing.T) {
	dir := modDir(t, sourceYAML, "0.5.1")

	res, err := Build(context.Background(), Options{Dir: dir, CheckManifest: true})
	require.NoError(t, err)

	assert.Equal(t, changelog.NewVersionID(0, 5, 1), res.Release)
	require.NotNil(t, res.Manifest)
	assert.Equal(t, "item-network", res.Manifest.Name)
	assert.Equal(t, filepath.Join(dir, DefaultOutput), res.OutputPath)
	assert.Contains(t, res.Text, "Version: Unreleased\nDate: ????\n")

	want, err := res.Document.RenderString()
	require.NoError(t, err)
	assert.Equal(t, want, res.Text)
}

func TestBuild_Errors(t *testing.T) {
	tests := map[string]struct {
		source   string
		manifest string
		opts     Options
		wantErr  error
		wantMsg  string
	}{
		"manifest ahead of changelog": {
			source:   sourceYAML,
			manifest: "0.5.2",
			opts:     Options{CheckManifest: true},
			wantErr:  ErrVersionMismatch,
			wantMsg:  "changelog release 0.5.1 does not match info.json version 0.5.2",
		},
		"manifest behind changelog": {
			source:   sourceYAML,
			manifest: "0.5.0",
			opts:     Options{CheckManifest: true},
			wantErr:  ErrVersionMismatch,
		},
		"only unreleased": {
			source:   "versions:\n  - version: unreleased\n    changes: {bugfixes: [\"Fixed.\"]}\n",
			manifest: "0.1.0",
			opts:     Options{CheckManifest: true},
			wantErr:  changelog.ErrNoReleasedVersion,
		},
		"invalid message": {
			source:  "versions:\n  - version: 0.1.0\n    date: 2023-06-06\n    changes: {bugfixes: [\"no period\"]}\n",
			wantErr: changelog.ErrInvalidMessage,
		},
		"missing manifest": {
			source:  sourceYAML,
			opts:    Options{CheckManifest: true},
			wantErr: os.ErrNotExist,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := tt.opts
			opts.Dir = modDir(t, tt.source, tt.manifest)

			_, err := Build(context.Background(), opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuild_MissingSource(t *testing.T) {
	_, err := Build(context.Background(), Options{Dir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckVersion(t *testing.T) {
	doc := changelog.New()
	doc.NewVersion(changelog.NewVersionID(0, 3, 1), time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)).Fix("Fixed.")
	doc.NewVersion(changelog.NewVersionID(0, 2, 2), time.Date(2023, 6, 26, 0, 0, 0, 0, time.UTC)).Fix("Fixed.")
	doc.NewUnreleased().Fix("Pending.")

	assert.NoError(t, CheckVersion(doc, changelog.NewVersionID(0, 3, 1), "info.json"))

	err := CheckVersion(doc, changelog.NewVersionID(0, 2, 2), "info.json")
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, changelog.NewVersionID(0, 3, 1), mismatch.Changelog)
	assert.Equal(t, changelog.NewVersionID(0, 2, 2), mismatch.Declared)
}

func TestWriteAndInSync(t *testing.T) {
	dir := modDir(t, sourceYAML, "")
	res, err := Build(context.Background(), Options{Dir: dir, Output: filepath.Join("build", "changelog.txt")})
	require.NoError(t, err)

	inSync, err := InSync(res)
	require.NoError(t, err)
	assert.False(t, inSync, "missing output is out of sync")

	require.NoError(t, Write(res))

	written, err := os.ReadFile(filepath.Join(dir, "build", "changelog.txt"))
	require.NoError(t, err)
	assert.Equal(t, res.Text, string(written))

	inSync, err = InSync(res)
	require.NoError(t, err)
	assert.True(t, inSync)

	require.NoError(t, os.WriteFile(res.OutputPath, []byte("stale\n"), 0o644))
	inSync, err = InSync(res)
	require.NoError(t, err)
	assert.False(t, inSync)
}

func tagRepo(t *testing.T, dir string, tags ...string) {
	t.Helper()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(DefaultSource)
	require.NoError(t, err)
	hash, err := wt.Commit("release", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
}

func TestBuild_GitTag(t *testing.T) {
	tests := map[string]struct {
		tags    []string
		wantErr bool
	}{
		"tag matches":             {tags: []string{"v0.5.0", "v0.5.1"}},
		"changelog ahead of tags": {tags: []string{"v0.5.0"}},
		"no tags":                 {},
		"tag ahead of changelog":  {tags: []string{"v0.6.0"}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := modDir(t, sourceYAML, "")
			tagRepo(t, dir, tt.tags...)

			_, err := Build(context.Background(), Options{Dir: dir, CheckGitTag: true})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrVersionMismatch)
				assert.Contains(t, err.Error(), "git tag v0.6.0")
				return
			}
			assert.NoError(t, err)
		})
	}
}
