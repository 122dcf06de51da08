// Package changelog builds Factorio-style mod changelogs.
//
// This package implements:
//   - An in-memory Document of version entries grouped by category
//   - Rendering to the fixed changelog.txt layout
//   - Authoring checks (dates, punctuation, known categories, non-empty versions)
//   - Loading a Document from a YAML source, a remote URL or the embedded template
//   - A colored terminal view for browsing entries
//
// Validation is deferred: a Document may hold incomplete versions while it is
// being populated. Problems surface when the Document is rendered or validated.
package changelog
