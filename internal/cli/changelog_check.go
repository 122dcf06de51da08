package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/cli/shared"
	clierrors "github.com/item-network/modpack/internal/errors"
	"github.com/item-network/modpack/internal/release"
)

var changelogCheckCmd = &cobra.Command{
	Use:   "check [dirs...]",
	Short: "Check that rendered changelogs are valid and up to date",
	Long: `Check one or more mod directories without writing anything.

For each directory the changelog source is validated and rendered in
memory, compared with the changelog.txt on disk, and its latest release is
compared with the version in info.json. Directories are checked in
parallel (max_parallel); every directory is reported even when others fail.

Exit codes:
  0  all directories are valid and in sync
  1  a changelog or manifest is invalid, or the versions disagree
  2  a changelog.txt is out of date`,
	Example: `  modpack changelog check
  modpack changelog check mods/*
  modpack changelog check --git mods/item-network`,
	RunE: runChangelogCheck,
}

func init() {
	changelogCmd.AddCommand(changelogCheckCmd)
	addCheckFlags(changelogCheckCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().Bool("git", false, "Also compare with the latest release tag")
	cmd.Flags().Bool("no-manifest", false, "Skip the info.json version check")
	cmd.Flags().IntP("jobs", "j", 0, "Directories checked at once (default from config)")
}

func runChangelogCheck(cmd *cobra.Command, args []string) error {
	c := currentConfig()

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	opts := releaseOptions(cmd, c, "")
	if gitTag, _ := cmd.Flags().GetBool("git"); gitTag {
		opts.CheckGitTag = true
	}
	if noManifest, _ := cmd.Flags().GetBool("no-manifest"); noManifest {
		opts.CheckManifest = false
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = c.MaxParallel
	}

	reports, err := release.CheckDirs(commandContext(cmd), dirs, opts, jobs)
	printReports(cmd, reports, opts)
	if err == nil {
		return nil
	}

	for _, r := range reports {
		if r.Err != nil && !errors.Is(r.Err, release.ErrOutOfSync) {
			return shared.NewExitError(shared.ExitValidationFailed)
		}
	}
	return shared.NewExitError(shared.ExitOutOfSync)
}

func printReports(cmd *cobra.Command, reports []release.DirReport, opts release.Options) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	out := cmd.OutOrStdout()

	failed := 0
	for _, r := range reports {
		if r.Err == nil {
			fmt.Fprintf(out, "%s %s (release %s)\n", green("✓"), r.Dir, releaseLabel(r))
			continue
		}
		failed++
		dirOpts := opts
		dirOpts.Dir = r.Dir
		fmt.Fprintf(out, "%s %s: %s\n", red("✗"), r.Dir, reportDetail(describeBuildError(dirOpts, r.Err)))
	}

	if len(reports) > 1 {
		fmt.Fprintf(out, "\n%d of %d directories passed\n", len(reports)-failed, len(reports))
	}
}

func releaseLabel(r release.DirReport) string {
	if r.Release.IsSet() {
		return r.Release.String()
	}
	return "none"
}

func reportDetail(err error) string {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr.Detail()
	}
	return err.Error()
}
