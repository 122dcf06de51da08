package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_GoldenItemNetwork(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "item-network.yaml"))
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("testdata", "item-network.txt"))
	require.NoError(t, err)

	got, err := doc.RenderString()
	require.NoError(t, err)
	assert.Equal(t, string(want), got)

	latest, err := doc.MostRecentVersionID()
	require.NoError(t, err)
	assert.Equal(t, NewVersionID(0, 5, 1), latest)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening changelog file")
}

func TestLoadFromReader_Valid(t *testing.T) {
	tests := map[string]struct {
		yaml   string
		verify func(t *testing.T, doc *Document)
	}{
		"minimal": {
			yaml: `
versions:
  - version: 0.1.0
    date: 2023-06-06
    changes:
      features:
        - "Added support for player logistics."
`,
			verify: func(t *testing.T, doc *Document) {
				require.Equal(t, 1, doc.Len())
				v := doc.Versions()[0]
				assert.Equal(t, NewVersionID(0, 1, 0), v.ID())
				d, ok := v.Date()
				require.True(t, ok)
				assert.Equal(t, date(2023, time.June, 6), d)
				assert.Equal(t, []Message{{Category: Features, Text: "Added support for player logistics."}}, v.Messages())
			},
		},
		"unreleased without date": {
			yaml: `
versions:
  - version: unreleased
    changes:
      bugfixes: ["Fixed a crash."]
`,
			verify: func(t *testing.T, doc *Document) {
				require.NotNil(t, doc.Unreleased())
				assert.Equal(t, Renderable, doc.Unreleased().State())
			},
		},
		"keys in registry order regardless of yaml order": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      ease_of_use: ["Better UI."]
      major_features: ["Big thing."]
`,
			verify: func(t *testing.T, doc *Document) {
				msgs := doc.Versions()[0].Messages()
				assert.Equal(t, []Message{
					{Category: MajorFeatures, Text: "Big thing."},
					{Category: EaseOfUse, Text: "Better UI."},
				}, msgs)
			},
		},
		"message order within category kept": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      bugfixes: ["Third.", "First.", "Second."]
`,
			verify: func(t *testing.T, doc *Document) {
				groups := doc.Versions()[0].Grouped()
				assert.Equal(t, []string{"Third.", "First.", "Second."}, groups[Bugfixes])
			},
		},
		"punctuation is not checked at load": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      changes: ["no period"]
`,
			verify: func(t *testing.T, doc *Document) {
				assert.ErrorIs(t, doc.Validate(), ErrInvalidMessage)
			},
		},
		"missing date is deferred": {
			yaml: `
versions:
  - version: 1.0.0
    changes:
      changes: ["Changed."]
`,
			verify: func(t *testing.T, doc *Document) {
				assert.Equal(t, Draft, doc.Versions()[0].State())
				assert.ErrorIs(t, doc.Validate(), ErrMissingDate)
			},
		},
		"missing version is deferred": {
			yaml: `
versions:
  - date: 2024-01-01
    changes:
      changes: ["Changed."]
`,
			verify: func(t *testing.T, doc *Document) {
				assert.ErrorIs(t, doc.Validate(), ErrMissingVersionID)
			},
		},
		"empty changes are deferred": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
`,
			verify: func(t *testing.T, doc *Document) {
				assert.ErrorIs(t, doc.Validate(), ErrEmptyEntry)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := LoadFromReader(strings.NewReader(tt.yaml))
			require.NoError(t, err)
			tt.verify(t, doc)
		})
	}
}

func TestLoadFromReader_Invalid(t *testing.T) {
	tests := map[string]struct {
		yaml       string
		wantErr    error
		wantErrMsg string
	}{
		"empty document": {
			yaml:    "",
			wantErr: ErrNoVersions,
		},
		"malformed yaml": {
			yaml:       "versions: [",
			wantErr:    ErrMalformedSource,
			wantErrMsg: "parsing changelog YAML",
		},
		"unknown top-level field": {
			yaml:       "project: x\nversions: []\n",
			wantErr:    ErrMalformedSource,
			wantErrMsg: "parsing changelog YAML",
		},
		"unknown category": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      added: ["Keep a Changelog name."]
`,
			wantErr:    ErrInvalidCategory,
			wantErrMsg: "versions[0].changes.added",
		},
		"display name as key": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      ease of use: ["Better UI."]
`,
			wantErr:    ErrInvalidCategory,
			wantErrMsg: `did you mean "ease_of_use"`,
		},
		"key differing only in case": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes:
      bugfixes: ["A."]
      Bugfixes: ["B."]
`,
			wantErr:    ErrInvalidCategory,
			wantErrMsg: "versions[0].changes.Bugfixes",
		},
		"bad version": {
			yaml: `
versions:
  - version: "1.0"
    date: 2024-01-01
`,
			wantErr:    ErrMalformedSource,
			wantErrMsg: "versions[0].version",
		},
		"bad date": {
			yaml: `
versions:
  - version: 1.0.0
    date: 01/02/2024
`,
			wantErr:    ErrMalformedSource,
			wantErrMsg: "invalid date format",
		},
		"duplicate version": {
			yaml: `
versions:
  - version: 1.0.0
    date: 2024-01-01
    changes: {changes: ["A."]}
  - version: v1.0.0
    date: 2024-01-02
    changes: {changes: ["B."]}
`,
			wantErr:    ErrDuplicateVersion,
			wantErrMsg: "versions[1].version",
		},
		"two unreleased": {
			yaml: `
versions:
  - version: unreleased
    changes: {changes: ["A."]}
  - version: unreleased
    changes: {changes: ["B."]}
`,
			wantErr: ErrDuplicateVersion,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			if tt.wantErrMsg != "" {
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			}
		})
	}
}
