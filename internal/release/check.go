package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/item-network/modpack/internal/changelog"
)

// DefaultMaxParallel bounds how many mod directories are checked at once.
const DefaultMaxParallel = 4

// ErrOutOfSync is returned when an output file differs from the rendered text.
var ErrOutOfSync = errors.New("changelog output is out of sync")

// DirReport is the outcome of checking one mod directory.
type DirReport struct {
	Dir     string
	Release changelog.VersionID
	InSync  bool
	Err     error
}

// Check builds the changelog of a single directory and compares it with the
// output on disk.
func Check(ctx context.Context, opts Options) DirReport {
	report := DirReport{Dir: opts.Dir}

	res, err := Build(ctx, opts)
	if err != nil {
		report.Err = err
		return report
	}
	report.Release = res.Release

	inSync, err := InSync(res)
	if err != nil {
		report.Err = err
		return report
	}
	report.InSync = inSync
	if !inSync {
		report.Err = fmt.Errorf("%s: %w", res.OutputPath, ErrOutOfSync)
	}
	return report
}

// CheckDirs checks several mod directories concurrently, at most maxParallel
// at a time. Every directory is checked even when others fail; reports are
// returned in the order of dirs and the error joins all failures.
func CheckDirs(ctx context.Context, dirs []string, opts Options, maxParallel int) ([]DirReport, error) {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}

	reports := make([]DirReport, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, dir := range dirs {
		i, dir := i, dir
		dirOpts := opts
		dirOpts.Dir = dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = DirReport{Dir: dir, Err: err}
				return nil
			}
			reports[i] = Check(ctx, dirOpts)
			slog.Debug("checked mod directory", "dir", dir, "ok", reports[i].Err == nil)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Dir, r.Err))
		}
	}
	return reports, errors.Join(errs...)
}
