package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/changelog"
	clierrors "github.com/item-network/modpack/internal/errors"
	"github.com/item-network/modpack/internal/release"
)

var changelogRenderCmd = &cobra.Command{
	Use:   "render [dir]",
	Short: "Render changelog.yaml to changelog.txt",
	Long: `Render the changelog source of a mod to the plain-text changelog.txt
format the game reads. Nothing is written when any version is incomplete:
every version needs a version number, a date and at least one message, and
every message must end with '.' or '!'.

The unreleased entry is rendered as "Version: Unreleased" with "Date: ????".

With --watch the changelog is re-rendered every time the source is saved,
until interrupted.`,
	Example: `  modpack changelog render
  modpack changelog render mods/item-network
  modpack changelog render --stdout
  modpack changelog render --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChangelogRender,
}

func init() {
	changelogCmd.AddCommand(changelogRenderCmd)
	addRenderFlags(changelogRenderCmd)
}

func addRenderFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().BoolP("watch", "w", false, "Re-render when the source changes")
	cmd.Flags().Bool("stdout", false, "Print the rendered changelog instead of writing it")
	cmd.Flags().Bool("no-manifest", false, "Skip the info.json version check")
}

func runChangelogRender(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	opts := releaseOptions(cmd, c, modDir(args))
	if noManifest, _ := cmd.Flags().GetBool("no-manifest"); noManifest {
		opts.CheckManifest = false
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	watch, _ := cmd.Flags().GetBool("watch")

	if watch {
		if toStdout {
			return clierrors.InvalidFlagCombination("--watch --stdout", "Watch mode always writes the output file")
		}
		if changelog.IsRemote(opts.SourcePath()) {
			return clierrors.InvalidFlagCombination("--watch with a URL source", "Only local sources can be watched")
		}
	}

	ctx, cancel := sourceContext(commandContext(cmd), c, opts)
	res, err := release.Build(ctx, opts)
	cancel()
	if err != nil {
		return describeBuildError(opts, err)
	}

	if toStdout {
		fmt.Fprint(cmd.OutOrStdout(), res.Text)
		return nil
	}

	if err := release.Write(res); err != nil {
		return clierrors.FileNotWritable(res.OutputPath, err)
	}
	printRendered(cmd, res)

	if !watch {
		return nil
	}
	return watchAndRender(cmd, opts)
}

func printRendered(cmd *cobra.Command, res *release.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	label := "no release yet"
	if res.Release.IsSet() {
		label = "latest release " + res.Release.String()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s (%d versions, %s)\n",
		green("✓"), res.OutputPath, res.Document.Len(), label)
}

func watchAndRender(cmd *cobra.Command, opts release.Options) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", opts.SourcePath())

	return release.WatchAndWrite(ctx, opts, func(res *release.Result, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", red("✗"), err)
			return
		}
		printRendered(cmd, res)
	})
}
