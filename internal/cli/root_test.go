// Package cli tests root command and global flags for modpack.
// Related: internal/cli/root.go
// Tags: cli, root, commands, global-flags

package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/item-network/modpack/internal/cli/shared"
	clierrors "github.com/item-network/modpack/internal/errors"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "modpack", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceErrors, "Execute reports errors itself")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName     string
		wantShortcut string
	}{
		"config flag":  {flagName: "config", wantShortcut: "c"},
		"debug flag":   {flagName: "debug", wantShortcut: "d"},
		"verbose flag": {flagName: "verbose", wantShortcut: "v"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.wantShortcut, flag.Shorthand)
		})
	}
}

func TestRootCmd_SubcommandGroups(t *testing.T) {
	t.Parallel()

	groupIDs := make(map[string]bool)
	for _, g := range rootCmd.Groups() {
		groupIDs[g.ID] = true
	}

	assert.True(t, groupIDs[shared.GroupGettingStarted], "Should have getting-started group")
	assert.True(t, groupIDs[shared.GroupChangelog], "Should have changelog group")
	assert.True(t, groupIDs[shared.GroupConfiguration], "Should have configuration group")

	for _, cmd := range rootCmd.Commands() {
		if cmd.GroupID != "" {
			assert.True(t, groupIDs[cmd.GroupID], "%s uses unknown group %s", cmd.Name(), cmd.GroupID)
		}
	}
}

func TestRootCmd_SubcommandTree(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"changelog render": {"changelog", "render"},
		"changelog check":  {"changelog", "check"},
		"changelog view":   {"changelog", "view"},
		"changelog init":   {"changelog", "init"},
		"version":          {"version"},
		"version check":    {"version", "check"},
		"config show":      {"config", "show"},
		"config set":       {"config", "set"},
	}

	for name, path := range tests {
		path := path
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, _, err := rootCmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], cmd.Name())
		})
	}
}

func TestExecute(t *testing.T) {
	// Cannot run in parallel due to global rootCmd state

	require.NotPanics(t, func() {
		rootCmd.SetArgs([]string{"--help"})
		defer rootCmd.SetArgs(nil)

		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		defer func() {
			rootCmd.SetOut(nil)
			rootCmd.SetErr(nil)
		}()

		assert.NoError(t, Execute())
		assert.Contains(t, buf.String(), "changelog")
	})
}

func TestReportError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want string
	}{
		"exit error is silent": {
			err:  shared.NewExitError(shared.ExitOutOfSync),
			want: "",
		},
		"cli error is formatted": {
			err:  clierrors.NewArgumentError("bad flag", "Use --help"),
			want: "bad flag",
		},
		"plain error": {
			err:  errors.New("boom"),
			want: "Error: boom\n",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			reportError(&buf, tt.err)
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLogLevel(t *testing.T) {
	// Modifies the global debug/verbose flags

	tests := map[string]struct {
		debug      bool
		verbose    bool
		configured string
		want       slog.Level
	}{
		"configured warn":    {configured: "warn", want: slog.LevelWarn},
		"configured error":   {configured: "error", want: slog.LevelError},
		"invalid falls back": {configured: "loud", want: slog.LevelWarn},
		"verbose flag":       {verbose: true, configured: "error", want: slog.LevelInfo},
		"debug flag wins":    {debug: true, verbose: true, configured: "error", want: slog.LevelDebug},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			origDebug, origVerbose := debugFlag, verbose
			debugFlag, verbose = tt.debug, tt.verbose
			defer func() { debugFlag, verbose = origDebug, origVerbose }()

			assert.Equal(t, tt.want, logLevel(tt.configured))
		})
	}
}

func TestSkipsConfig(t *testing.T) {
	t.Parallel()

	parent := &cobra.Command{Use: "config", Annotations: map[string]string{shared.SkipConfigAnnotation: "true"}}
	child := &cobra.Command{Use: "show"}
	parent.AddCommand(child)

	assert.True(t, skipsConfig(child))
	assert.False(t, skipsConfig(&cobra.Command{Use: "render"}))
}
