// Package release turns a changelog source into the changelog.txt that ships
// with a mod, and checks it against the mod's declared metadata.
//
// It is the I/O side of the changelog package: it resolves paths, loads the
// source and manifest, writes output and compares it with what is on disk.
package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/item-network/modpack/internal/changelog"
	"github.com/item-network/modpack/internal/git"
	"github.com/item-network/modpack/internal/manifest"
)

// Default file names inside a mod directory.
const (
	DefaultSource = "changelog.yaml"
	DefaultOutput = "changelog.txt"
)

// ErrVersionMismatch is returned when the changelog's most recent release
// disagrees with externally declared release metadata.
var ErrVersionMismatch = errors.New("version mismatch")

// MismatchError reports which declared version disagreed with the changelog.
type MismatchError struct {
	// Source names where Declared came from, e.g. "info.json" or "git tag v0.5.1".
	Source    string
	Declared  changelog.VersionID
	Changelog changelog.VersionID
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("changelog release %s does not match %s version %s",
		e.Changelog, e.Source, e.Declared)
}

func (e *MismatchError) Unwrap() error {
	return ErrVersionMismatch
}

// Options configures a build. Relative paths are resolved against Dir.
type Options struct {
	Dir           string
	Source        string // changelog YAML path or HTTP(S) URL
	Output        string
	Manifest      string // info.json path, default manifest.FileName
	CheckManifest bool
	CheckGitTag   bool
}

// Result is a rendered changelog and what it was checked against.
type Result struct {
	Document   *changelog.Document
	Text       string
	Release    changelog.VersionID // zero when the changelog has no release yet
	Manifest   *manifest.Manifest  // nil unless CheckManifest was set
	OutputPath string
}

// SourcePath returns the resolved source location.
func (o Options) SourcePath() string {
	source := o.Source
	if source == "" {
		source = DefaultSource
	}
	if changelog.IsRemote(source) {
		return source
	}
	return o.resolve(source)
}

// OutputPath returns the resolved output file.
func (o Options) OutputPath() string {
	output := o.Output
	if output == "" {
		output = DefaultOutput
	}
	return o.resolve(output)
}

// ManifestPath returns the resolved manifest file.
func (o Options) ManifestPath() string {
	path := o.Manifest
	if path == "" {
		path = manifest.FileName
	}
	return o.resolve(path)
}

func (o Options) resolve(path string) string {
	if filepath.IsAbs(path) || o.Dir == "" {
		return path
	}
	return filepath.Join(o.Dir, path)
}

// Build loads the changelog source, renders it and runs the configured
// consistency checks. Nothing is written to disk.
func Build(ctx context.Context, opts Options) (*Result, error) {
	source := opts.SourcePath()
	slog.Debug("loading changelog source", "source", source)

	doc, err := changelog.LoadSource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}

	text, err := doc.RenderString()
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", source, err)
	}

	res := &Result{
		Document:   doc,
		Text:       text,
		OutputPath: opts.OutputPath(),
	}
	if latest, err := doc.MostRecentVersionID(); err == nil {
		res.Release = latest
	}

	if opts.CheckManifest {
		m, err := manifest.Load(opts.ManifestPath())
		if err != nil {
			return nil, err
		}
		res.Manifest = m

		declared, err := m.ReleaseVersion()
		if err != nil {
			return nil, err
		}
		if err := CheckVersion(doc, declared, filepath.Base(m.Path())); err != nil {
			return nil, err
		}
	}

	if opts.CheckGitTag {
		if err := checkGitTag(doc, opts.Dir); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// CheckVersion compares the changelog's most recent release with a declared
// version. The unreleased placeholder never counts as a release.
func CheckVersion(doc *changelog.Document, declared changelog.VersionID, source string) error {
	latest, err := doc.MostRecentVersionID()
	if err != nil {
		return fmt.Errorf("checking %s version: %w", source, err)
	}
	if latest.Compare(declared) != 0 {
		return &MismatchError{Source: source, Declared: declared, Changelog: latest}
	}
	return nil
}

// checkGitTag fails when a release was tagged that the changelog does not
// know about. A changelog ahead of the tags is fine: the release is pending.
func checkGitTag(doc *changelog.Document, dir string) error {
	tag, err := git.LatestReleaseTag(dir)
	if errors.Is(err, git.ErrNoReleaseTags) {
		slog.Debug("no release tags, skipping tag check", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading release tags: %w", err)
	}

	latest, err := doc.MostRecentVersionID()
	if err != nil {
		return fmt.Errorf("checking git tag %s: %w", tag.Name, err)
	}
	if tag.Version.Compare(latest) > 0 {
		return &MismatchError{Source: "git tag " + tag.Name, Declared: tag.Version, Changelog: latest}
	}
	return nil
}

// Write stores the rendered text at the result's output path.
func Write(res *Result) error {
	if err := os.MkdirAll(filepath.Dir(res.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(res.OutputPath, []byte(res.Text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", res.OutputPath, err)
	}
	slog.Debug("wrote changelog", "path", res.OutputPath, "bytes", len(res.Text))
	return nil
}

// InSync reports whether the output file already holds the rendered text.
// A missing output file is out of sync, not an error.
func InSync(res *Result) (bool, error) {
	existing, err := os.ReadFile(res.OutputPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", res.OutputPath, err)
	}
	return string(existing) == res.Text, nil
}
