package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// Version retrieves the entry with the given id.
// If several entries share the id, the first registered one is returned.
func (d *Document) Version(id VersionID) (*VersionEntry, error) {
	for _, v := range d.versions {
		if v.id.Compare(id) == 0 {
			return v, nil
		}
	}
	return nil, &VersionNotFoundError{
		Version:           id.String(),
		AvailableVersions: d.ListVersions(),
	}
}

// Lookup is like Version but accepts "v0.5.1", "0.5.1" or "unreleased".
func (d *Document) Lookup(version string) (*VersionEntry, error) {
	id, err := ParseVersionID(version)
	if err != nil {
		return nil, &VersionNotFoundError{
			Version:           version,
			AvailableVersions: d.ListVersions(),
		}
	}
	return d.Version(id)
}

// Unreleased returns the unreleased placeholder, or nil if there is none.
func (d *Document) Unreleased() *VersionEntry {
	for _, v := range d.versions {
		if v.id.IsUnreleased() {
			return v
		}
	}
	return nil
}

// HasUnreleased returns true if the changelog has an unreleased section.
func (d *Document) HasUnreleased() bool {
	return d.Unreleased() != nil
}

// LatestRelease returns the entry of the most recent release, or nil.
func (d *Document) LatestRelease() *VersionEntry {
	id, err := d.MostRecentVersionID()
	if err != nil {
		return nil
	}
	v, _ := d.Version(id)
	return v
}

// ListVersions returns the version identifiers, newest first.
// Entries without a version id are listed as "(unset)".
func (d *Document) ListVersions() []string {
	sorted := d.Versions()
	versions := make([]string, len(sorted))
	for i, v := range sorted {
		versions[i] = v.id.String()
		if versions[i] == "" {
			versions[i] = "(unset)"
		}
	}
	return versions
}

// Len returns the number of registered versions.
func (d *Document) Len() int {
	return len(d.versions)
}

// MessageCount returns the total number of messages across all versions.
func (d *Document) MessageCount() int {
	count := 0
	for _, v := range d.versions {
		count += len(v.messages)
	}
	return count
}

// RecentMessages returns up to n messages from the newest versions first.
// Within a version, messages follow category display order.
func (d *Document) RecentMessages(n int) []Message {
	if n <= 0 {
		return []Message{}
	}

	messages := make([]Message, 0, n)
	for _, v := range d.Versions() {
		groups := v.Grouped()
		for _, category := range Categories() {
			for _, text := range groups[category] {
				if len(messages) == n {
					return messages
				}
				messages = append(messages, Message{Category: category, Text: text})
			}
		}
	}
	return messages
}
