package changelog

import (
	"slices"
	"time"
)

// Document is an in-memory changelog: a set of version entries that renders
// newest first. It is a single-writer builder and is not safe for concurrent
// mutation.
//
// The Document does not enforce unique version ids; the YAML loader does.
type Document struct {
	versions []*VersionEntry
}

// New returns an empty Document.
func New() *Document {
	return &Document{}
}

// NewVersion registers a version entry and returns it for population.
// A zero date leaves the entry in Draft until SetDate is called.
func (d *Document) NewVersion(id VersionID, date time.Time) *VersionEntry {
	e := &VersionEntry{id: id}
	e.SetDate(date)
	d.versions = append(d.versions, e)
	return e
}

// NewUnreleased registers the unreleased placeholder. It sorts before every
// release and renders with a pending date until Release is called on it.
func (d *Document) NewUnreleased() *VersionEntry {
	e := &VersionEntry{id: Unreleased(), datePending: true}
	d.versions = append(d.versions, e)
	return e
}

// Versions returns the entries ordered by version id, newest first.
// Entries with equal ids keep their registration order.
func (d *Document) Versions() []*VersionEntry {
	sorted := slices.Clone(d.versions)
	slices.SortStableFunc(sorted, func(a, b *VersionEntry) int {
		return b.id.Compare(a.id)
	})
	return sorted
}

// MostRecentVersionID returns the highest released version id.
//
// The unreleased placeholder is excluded: it sorts first for rendering but
// is never a release, so it must not satisfy a cross-check against declared
// release metadata.
func (d *Document) MostRecentVersionID() (VersionID, error) {
	var latest VersionID
	for _, v := range d.versions {
		if v.id.IsRelease() && v.id.Compare(latest) > 0 {
			latest = v.id
		}
	}
	if !latest.IsSet() {
		return VersionID{}, ErrNoReleasedVersion
	}
	return latest, nil
}

// Validate checks every entry as rendering would, without producing text.
func (d *Document) Validate() error {
	_, err := d.lines()
	return err
}

func (d *Document) lines() ([]string, error) {
	if len(d.versions) == 0 {
		return nil, ErrNoVersions
	}

	var lines []string
	for _, v := range d.Versions() {
		entryLines, err := v.Lines()
		if err != nil {
			return nil, err
		}
		lines = append(lines, entryLines...)
	}
	return lines, nil
}
