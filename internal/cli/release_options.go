package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/changelog"
	"github.com/item-network/modpack/internal/config"
	clierrors "github.com/item-network/modpack/internal/errors"
	"github.com/item-network/modpack/internal/git"
	"github.com/item-network/modpack/internal/manifest"
	"github.com/item-network/modpack/internal/release"
)

// addSourceFlags registers the flags shared by commands that read a source.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Changelog YAML path or http(s) URL (default from config)")
	cmd.Flags().StringP("output", "o", "", "Rendered changelog path (default from config)")
}

// releaseOptions combines the configuration with flag overrides for dir.
func releaseOptions(cmd *cobra.Command, c *config.Configuration, dir string) release.Options {
	opts := release.Options{
		Dir:           dir,
		Source:        c.Source,
		Output:        c.Output,
		Manifest:      c.Manifest,
		CheckManifest: c.CheckManifest,
		CheckGitTag:   c.CheckGitTag,
	}
	if f := cmd.Flags().Lookup("source"); f != nil && f.Changed {
		opts.Source = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		opts.Output = f.Value.String()
	}
	return opts
}

// sourceContext bounds remote fetches by the configured timeout.
func sourceContext(ctx context.Context, c *config.Configuration, opts release.Options) (context.Context, context.CancelFunc) {
	if changelog.IsRemote(opts.SourcePath()) && c.RemoteTimeout > 0 {
		return context.WithTimeout(ctx, c.RemoteTimeout)
	}
	return context.WithCancel(ctx)
}

// describeBuildError turns a release build failure into a CLIError with
// remediation steps.
func describeBuildError(opts release.Options, err error) error {
	var fieldErr *manifest.FieldError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, release.ErrVersionMismatch):
		return clierrors.VersionMismatch(err)
	case errors.Is(err, changelog.ErrNoReleasedVersion):
		return clierrors.NoReleasedVersion(err)
	case errors.Is(err, release.ErrOutOfSync):
		return clierrors.OutOfSync(err)
	case changelog.IsValidationError(err),
		errors.Is(err, changelog.ErrNoVersions),
		errors.Is(err, changelog.ErrMalformedSource):
		return clierrors.InvalidChangelog(err)
	case errors.As(err, &fieldErr):
		return clierrors.InvalidManifest(opts.ManifestPath(), err)
	case opts.CheckGitTag && !git.IsGitRepository(opts.Dir):
		return clierrors.GitNotRepository()
	case changelog.IsRemote(opts.SourcePath()) && !errors.Is(err, os.ErrNotExist):
		return clierrors.RemoteFetchError(opts.SourcePath(), err)
	case errors.Is(err, os.ErrNotExist):
		if opts.Dir != "" {
			if _, statErr := os.Stat(opts.Dir); statErr != nil {
				return clierrors.DirectoryNotFound(opts.Dir)
			}
		}
		if _, statErr := os.Stat(opts.SourcePath()); statErr != nil {
			return clierrors.MissingSource(opts.SourcePath(), err)
		}
		return clierrors.MissingManifest(opts.ManifestPath(), err)
	}
	return err
}
