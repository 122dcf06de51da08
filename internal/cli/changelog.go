package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/changelog"
	"github.com/item-network/modpack/internal/cli/shared"
	clierrors "github.com/item-network/modpack/internal/errors"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Render, check and view mod changelogs",
	Long: `Work with the changelog.yaml source of a mod and the changelog.txt
rendered from it.

The source lists versions newest or oldest first; each version has a
version ("1.2.3" or "unreleased"), a date (YYYY-MM-DD) and messages grouped
by category key (major_features, features, bugfixes, ease_of_use, ...).`,
}

var changelogViewCmd = &cobra.Command{
	Use:   "view [version]",
	Short: "Show changelog entries in the terminal",
	Long: `Show changelog entries from the changelog source.

By default every version is shown, newest first. Use a version argument to
see a single version, or --last to limit how many versions are shown.
Incomplete versions are shown as well, so drafts can be reviewed.`,
	Example: `  modpack changelog view              # Show all versions
  modpack changelog view v0.5.1       # Show version 0.5.1
  modpack changelog view 0.5.1        # Same (v prefix optional)
  modpack changelog view unreleased   # Show unreleased changes
  modpack changelog view --last 3     # Show the 3 most recent versions
  modpack changelog view --plain      # Plain output (no colors/icons)`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runChangelogView,
}

func init() {
	changelogCmd.GroupID = shared.GroupChangelog
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogViewCmd)
	addViewFlags(changelogViewCmd)
}

func addViewFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().Int("last", 0, "Number of versions to show (0 = all)")
	cmd.Flags().Bool("plain", false, "Plain text output (no colors/icons)")
	cmd.Flags().StringP("dir", "C", ".", "Mod directory")
}

func runChangelogView(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	dir, _ := cmd.Flags().GetString("dir")
	opts := releaseOptions(cmd, c, dir)

	ctx, cancel := sourceContext(commandContext(cmd), c, opts)
	defer cancel()

	doc, err := changelog.LoadSource(ctx, opts.SourcePath())
	if err != nil {
		return describeBuildError(opts, fmt.Errorf("loading %s: %w", opts.SourcePath(), err))
	}

	plain, _ := cmd.Flags().GetBool("plain")
	format := changelog.FormatOptions{
		Plain:    plain || c.View.Plain,
		MaxWidth: c.View.MaxWidth,
	}

	if len(args) == 1 {
		return showVersion(cmd, doc, args[0], format)
	}

	last, _ := cmd.Flags().GetInt("last")
	return showLastVersions(cmd, doc, last, format)
}

func showVersion(cmd *cobra.Command, doc *changelog.Document, version string, opts changelog.FormatOptions) error {
	v, err := doc.Lookup(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, ver := range notFound.AvailableVersions {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ver)
			}
			return shared.NewExitError(shared.ExitInvalidArguments)
		}
		return clierrors.VersionNotFound(err)
	}

	return changelog.FormatVersion(v, cmd.OutOrStdout(), opts)
}

func showLastVersions(cmd *cobra.Command, doc *changelog.Document, n int, opts changelog.FormatOptions) error {
	out := cmd.OutOrStdout()
	versions := doc.Versions()
	if len(versions) == 0 {
		fmt.Fprintln(out, "No changelog entries found.")
		return nil
	}

	total := len(versions)
	if n > 0 && n < total {
		versions = versions[:n]
	}

	for i, v := range versions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := changelog.FormatVersion(v, out, opts); err != nil {
			return fmt.Errorf("formatting version %s: %w", v.ID(), err)
		}
	}

	if total > len(versions) {
		fmt.Fprintf(out, "\n(%d of %d versions shown. Use --last %d to see all)\n",
			len(versions), total, total)
	}
	return nil
}
