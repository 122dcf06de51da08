package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	clicfg "github.com/item-network/modpack/internal/cli/config"
	"github.com/item-network/modpack/internal/cli/shared"
	"github.com/item-network/modpack/internal/cli/util"
	"github.com/item-network/modpack/internal/config"
	clierrors "github.com/item-network/modpack/internal/errors"
)

var (
	configPath string
	debugFlag  bool
	verbose    bool

	// cfg is the configuration loaded for the running command.
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "modpack",
	Short: "Build and check Factorio mod changelogs",
	Long: `modpack builds the changelog.txt shipped with a Factorio mod from a
structured changelog.yaml, and checks that the latest release agrees with
the version declared in info.json.

Source: https://github.com/item-network/modpack`,
	Example: `  # Render changelog.yaml to changelog.txt
  modpack changelog render

  # Re-render whenever the source changes
  modpack changelog render --watch

  # Check several mods in CI
  modpack changelog check mods/*

  # Show the unreleased changes
  modpack changelog view unreleased

  # Check info.json and the latest git tag against the changelog
  modpack version check --git`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: shared.GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: shared.GroupChangelog, Title: "Changelog:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Project config file (default: .modpack/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable info logging")

	util.VersionCmd.AddCommand(versionCheckCmd)
	rootCmd.AddCommand(util.VersionCmd)
	rootCmd.AddCommand(clicfg.ConfigCmd)
}

// Execute runs the root command and reports its error on stderr.
// The returned error is meant for shared.ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func reportError(w io.Writer, err error) {
	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// setup loads the configuration and installs the default logger.
func setup(cmd *cobra.Command, args []string) error {
	if skipsConfig(cmd) {
		cfg = config.Defaults()
	} else {
		loaded, err := config.Load(configPath)
		if err != nil {
			return clierrors.ConfigParseError(configFileLabel(), err)
		}
		cfg = loaded
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(handler))
	slog.Debug("configuration loaded", "source", cfg.Source, "output", cfg.Output, "max_parallel", cfg.MaxParallel)
	return nil
}

func configFileLabel() string {
	if configPath != "" {
		return configPath
	}
	return config.ProjectConfigPath()
}

// skipsConfig reports whether cmd or one of its parents is annotated to run
// without loading config files.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[shared.SkipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

// logLevel resolves the slog level; --debug and --verbose win over log_level.
func logLevel(configured string) slog.Level {
	switch {
	case debugFlag:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(configured)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// currentConfig returns the loaded configuration, or the defaults when a
// command runs without the root's setup (as in tests).
func currentConfig() *config.Configuration {
	if cfg == nil {
		return config.Defaults()
	}
	return cfg
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// modDir returns the directory argument, or "." for the current directory.
func modDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
