package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/changelog"
	clierrors "github.com/item-network/modpack/internal/errors"
)

var changelogInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter changelog.yaml",
	Long: `Create a changelog source with an unreleased entry and an initial
release, ready to be edited. An existing source is left unchanged unless
--force is given.`,
	Example: `  modpack changelog init
  modpack changelog init mods/new-mod --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChangelogInit,
}

func init() {
	changelogCmd.AddCommand(changelogInitCmd)
	addInitFlags(changelogInitCmd)
}

func addInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Source file to create (default from config)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing source")
}

func runChangelogInit(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	opts := releaseOptions(cmd, c, modDir(args))
	path := opts.SourcePath()

	if changelog.IsRemote(path) {
		return clierrors.NewArgumentError("cannot create a remote source: "+path,
			"Pass a local path with --source")
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Changelog source already exists at %s (use --force to overwrite)\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	if err := os.WriteFile(path, changelog.Template(), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", green("✓"), path)
	return nil
}
