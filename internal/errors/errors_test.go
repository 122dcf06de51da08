package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Runtime:           "Runtime Error",
		Validation:        "Validation Error",
		ErrorCategory(99): "Error",
	}
	for category, want := range tests {
		assert.Equal(t, want, category.String())
	}
}

func TestWrap_PreservesChain(t *testing.T) {
	base := fmt.Errorf("loading changelog.yaml: %w", os.ErrNotExist)

	wrapped := MissingSource("changelog.yaml", base)
	require.NotNil(t, wrapped)
	assert.Equal(t, Prerequisite, wrapped.Category)
	assert.Contains(t, wrapped.Error(), "changelog source not found: changelog.yaml")
	assert.ErrorIs(t, wrapped, os.ErrNotExist)

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))
}

func TestAsCLIError(t *testing.T) {
	cliErr := NewArgumentError("bad flag")

	assert.Same(t, cliErr, AsCLIError(cliErr))
	assert.Same(t, cliErr, AsCLIError(fmt.Errorf("running: %w", cliErr)))
	assert.True(t, IsCLIError(fmt.Errorf("running: %w", cliErr)))

	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.False(t, IsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewArgumentErrorWithUsage("version argument is required",
		"modpack changelog view <version>",
		"List versions with: modpack changelog view")

	got := FormatErrorPlain(err)

	assert.Equal(t, "Error [Argument Error]: version argument is required\n"+
		"\nUsage: modpack changelog view <version>\n"+
		"\nTo fix this:\n  • List versions with: modpack changelog view\n", got)
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestMessages_Categories(t *testing.T) {
	cause := stderrors.New("cause")
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"missing source":    {err: MissingSource("c.yaml", cause), want: Prerequisite},
		"missing manifest":  {err: MissingManifest("info.json", cause), want: Prerequisite},
		"invalid manifest":  {err: InvalidManifest("info.json", cause), want: Validation},
		"invalid changelog": {err: InvalidChangelog(cause), want: Validation},
		"version mismatch":  {err: VersionMismatch(cause), want: Validation},
		"no release":        {err: NoReleasedVersion(cause), want: Validation},
		"out of sync":       {err: OutOfSync(cause), want: Validation},
		"version not found": {err: VersionNotFound(cause), want: Argument},
		"config parse":      {err: ConfigParseError("config.yml", cause), want: Configuration},
		"remote fetch":      {err: RemoteFetchError("https://example.com", cause), want: Runtime},
		"not writable":      {err: FileNotWritable("changelog.txt", cause), want: Runtime},
		"flag combination":  {err: InvalidFlagCombination("--watch --source URL", "cannot watch a URL"), want: Argument},
		"directory":         {err: DirectoryNotFound("mods"), want: Prerequisite},
		"git":               {err: GitNotRepository(), want: Prerequisite},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

func TestCLIError_Detail(t *testing.T) {
	tests := map[string]struct {
		err        *CLIError
		wantCause  string
		wantDetail string
	}{
		"no cause": {
			err:        NewArgumentError("bad flag"),
			wantDetail: "bad flag",
		},
		"wrapped cause": {
			err:        InvalidChangelog(stderrors.New("version 0.5.1: message must end with '.' or '!'")),
			wantCause:  "version 0.5.1: message must end with '.' or '!'",
			wantDetail: "invalid changelog: version 0.5.1: message must end with '.' or '!'",
		},
		"cause repeats message": {
			err:        Wrap(stderrors.New("boom"), Runtime),
			wantDetail: "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.wantCause, tt.err.Cause())
			assert.Equal(t, tt.wantDetail, tt.err.Detail())
		})
	}
}

func TestFormatErrorPlain_Cause(t *testing.T) {
	err := OutOfSync(stderrors.New("changelog.txt: changelog output is out of sync"))

	got := FormatErrorPlain(err)

	assert.True(t, strings.HasPrefix(got, "Error [Validation Error]: rendered changelog is out of date\n"+
		"  changelog.txt: changelog output is out of sync\n"))
	assert.Contains(t, got, "  • Regenerate it with: modpack changelog render\n")
}
