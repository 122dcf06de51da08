package changelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// sourceDateLayout is the date format of YAML sources.
const sourceDateLayout = "2006-01-02"

// source is the on-disk shape of a changelog.yaml file.
type source struct {
	Versions []sourceVersion `yaml:"versions"`
}

type sourceVersion struct {
	Version string              `yaml:"version"`
	Date    string              `yaml:"date,omitempty"`
	Changes map[string][]string `yaml:"changes"`
}

// Load reads a changelog.yaml file from the given path and builds a Document.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader reads a changelog YAML source from an io.Reader.
//
// Structural problems (unknown keys, malformed versions or dates, unknown
// categories, duplicate versions) are reported here. Missing dates, empty
// versions and punctuation are left to Render and Validate so that a source
// can describe work in progress.
func LoadFromReader(r io.Reader) (*Document, error) {
	var src source

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&src); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoVersions
		}
		return nil, fmt.Errorf("parsing changelog YAML: %w: %w", ErrMalformedSource, err)
	}

	return build(&src)
}

func build(src *source) (*Document, error) {
	doc := New()
	seen := make(map[VersionID]int)

	for i, sv := range src.Versions {
		id, err := parseSourceVersion(sv.Version, i)
		if err != nil {
			return nil, err
		}

		if id.IsSet() {
			if prev, ok := seen[id]; ok {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("versions[%d].version", i),
					Message: fmt.Sprintf("%q already declared at versions[%d]", sv.Version, prev),
					Err:     ErrDuplicateVersion,
				}
			}
			seen[id] = i
		}

		date, err := parseSourceDate(sv.Date, i)
		if err != nil {
			return nil, err
		}

		var entry *VersionEntry
		if id.IsUnreleased() {
			entry = doc.NewUnreleased()
			if !date.IsZero() {
				entry.SetDate(date)
			}
		} else {
			entry = doc.NewVersion(id, date)
		}

		if err := addSourceChanges(entry, sv.Changes, i); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func parseSourceVersion(raw string, index int) (VersionID, error) {
	if raw == "" {
		return VersionID{}, nil
	}
	id, err := ParseVersionID(raw)
	if err != nil {
		return VersionID{}, &ValidationError{
			Field:   fmt.Sprintf("versions[%d].version", index),
			Message: err.Error(),
			Err:     ErrMalformedSource,
		}
	}
	return id, nil
}

func parseSourceDate(raw string, index int) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(sourceDateLayout, raw)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   fmt.Sprintf("versions[%d].date", index),
			Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", raw),
			Err:     ErrMalformedSource,
		}
	}
	return date, nil
}

// addSourceChanges adds messages in category display order. Keys must be
// exact category keys (major_features, ease_of_use); the order of keys in
// the YAML mapping does not matter, the order of messages within a key is
// kept.
func addSourceChanges(entry *VersionEntry, changes map[string][]string, index int) error {
	var unknown []string
	for key := range changes {
		if _, ok := categoryForKey(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		key := unknown[0]
		message := "unknown category"
		if c, err := ParseCategory(key); err == nil {
			message = fmt.Sprintf("unknown category (did you mean %q?)", c.Key())
		}
		return &ValidationError{
			Field:   fmt.Sprintf("versions[%d].changes.%s", index, key),
			Message: message,
			Err:     ErrInvalidCategory,
		}
	}

	for _, category := range Categories() {
		for _, text := range changes[category.Key()] {
			if err := entry.AddMessage(category, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// categoryForKey matches a source key exactly against the category keys.
func categoryForKey(key string) (Category, bool) {
	for _, c := range Categories() {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}
