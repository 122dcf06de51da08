package changelog

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type versionKind uint8

const (
	kindUnset versionKind = iota
	kindRelease
	kindUnreleased
)

// unreleasedName is the identifier of the placeholder version in sources and CLI arguments.
const unreleasedName = "unreleased"

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// VersionID identifies a changelog version: either a major.minor.patch
// release or the unreleased placeholder. The zero value is unset.
//
// For ordering, the placeholder is greater than every release. It never
// takes part in release comparisons; see Document.MostRecentVersionID.
type VersionID struct {
	major, minor, patch uint
	kind                versionKind
}

// NewVersionID returns the release version major.minor.patch.
func NewVersionID(major, minor, patch uint) VersionID {
	return VersionID{major: major, minor: minor, patch: patch, kind: kindRelease}
}

// Unreleased returns the placeholder version id.
func Unreleased() VersionID {
	return VersionID{kind: kindUnreleased}
}

// ParseVersionID parses "major.minor.patch" (an optional "v" prefix is
// accepted) or "unreleased".
func ParseVersionID(s string) (VersionID, error) {
	normalized := NormalizeVersion(s)
	if normalized == unreleasedName {
		return Unreleased(), nil
	}

	m := versionPattern.FindStringSubmatch(normalized)
	if m == nil {
		return VersionID{}, fmt.Errorf("invalid version %q (expected: X.Y.Z or unreleased)", s)
	}

	var parts [3]uint
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 32)
		if err != nil {
			return VersionID{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		parts[i] = uint(n)
	}
	return NewVersionID(parts[0], parts[1], parts[2]), nil
}

// NormalizeVersion lowercases a version string and strips a "v" prefix.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

func (v VersionID) Major() uint { return v.major }
func (v VersionID) Minor() uint { return v.minor }
func (v VersionID) Patch() uint { return v.patch }

// IsSet reports whether v was assigned, as a release or as the placeholder.
func (v VersionID) IsSet() bool {
	return v.kind != kindUnset
}

// IsRelease reports whether v is a concrete major.minor.patch version.
func (v VersionID) IsRelease() bool {
	return v.kind == kindRelease
}

// IsUnreleased reports whether v is the placeholder.
func (v VersionID) IsUnreleased() bool {
	return v.kind == kindUnreleased
}

// Compare orders version ids: unset < releases (numerically) < unreleased.
// It returns -1, 0 or +1.
func (v VersionID) Compare(other VersionID) int {
	if c := cmp.Compare(v.kind, other.kind); c != 0 {
		return c
	}
	if v.kind != kindRelease {
		return 0
	}
	if c := cmp.Compare(v.major, other.major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.minor, other.minor); c != 0 {
		return c
	}
	return cmp.Compare(v.patch, other.patch)
}

// String returns "major.minor.patch", "unreleased", or "" when unset.
func (v VersionID) String() string {
	switch v.kind {
	case kindRelease:
		return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	case kindUnreleased:
		return unreleasedName
	default:
		return ""
	}
}
