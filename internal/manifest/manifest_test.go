package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/item-network/modpack/internal/changelog"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoadDir(t *testing.T) {
	m, err := LoadDir("testdata")
	require.NoError(t, err)

	assert.Equal(t, "item-network", m.Name)
	assert.Equal(t, "0.5.1", m.Version)
	assert.Equal(t, "Item Network", m.Title)
	assert.Equal(t, "1.1", m.FactorioVersion)
	assert.Equal(t, []string{"base >= 1.1"}, m.Dependencies)
	assert.Equal(t, filepath.Join("testdata", FileName), m.Path())
	assert.Equal(t, "item-network_0.5.1", m.ArchiveName())

	id, err := m.ReleaseVersion()
	require.NoError(t, err)
	assert.Equal(t, changelog.NewVersionID(0, 5, 1), id)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]struct {
		content    string
		wantErrMsg []string
	}{
		"malformed json": {
			content:    `{"name": `,
			wantErrMsg: []string{"parsing manifest"},
		},
		"missing fields": {
			content:    `{"name": "x"}`,
			wantErrMsg: []string{"field 'version': is required", "field 'title': is required", "field 'author': is required"},
		},
		"two part version": {
			content:    `{"name": "x", "version": "1.1", "title": "X", "author": "me"}`,
			wantErrMsg: []string{"field 'version'", "expected: X.Y.Z"},
		},
		"prerelease version": {
			content:    `{"name": "x", "version": "1.1.0-beta", "title": "X", "author": "me"}`,
			wantErrMsg: []string{"pre-release"},
		},
		"garbage version": {
			content:    `{"name": "x", "version": "a.b.c", "title": "X", "author": "me"}`,
			wantErrMsg: []string{"invalid version"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadDir(writeManifest(t, tt.content))
			require.Error(t, err)
			for _, msg := range tt.wantErrMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
