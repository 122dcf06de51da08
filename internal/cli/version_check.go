package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/release"
)

var versionCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check the mod version against the changelog",
	Long: `Check that the version declared in info.json is the most recent
release in the changelog. The unreleased entry never counts as a release.

With --git the latest release tag (v1.2.3 or 1.2.3) must not be newer than
the changelog's latest release either.`,
	Example: `  modpack version check
  modpack version check mods/item-network --git`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVersionCheck,
}

func init() {
	addVersionCheckFlags(versionCheckCmd)
}

func addVersionCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Changelog YAML path or http(s) URL (default from config)")
	cmd.Flags().Bool("git", false, "Also compare with the latest release tag")
}

func runVersionCheck(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	opts := releaseOptions(cmd, c, modDir(args))
	opts.CheckManifest = true
	if gitTag, _ := cmd.Flags().GetBool("git"); gitTag {
		opts.CheckGitTag = true
	}

	ctx, cancel := sourceContext(commandContext(cmd), c, opts)
	defer cancel()

	res, err := release.Build(ctx, opts)
	if err != nil {
		return describeBuildError(opts, err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s matches changelog release %s\n",
		green("✓"), res.Manifest.Name, res.Manifest.Version, res.Release)
	if opts.CheckGitTag {
		fmt.Fprintf(cmd.OutOrStdout(), "%s no release tag is ahead of the changelog\n", green("✓"))
	}
	return nil
}
