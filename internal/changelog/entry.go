package changelog

import (
	"fmt"
	"strings"
	"time"
)

// Layout constants of the rendered changelog.
const (
	separatorWidth = 99
	headerIndent   = "  "
	itemPrefix     = "    - "
	dateLayout     = "02. 01. 2006"
	pendingDate    = "????"
)

var separator = strings.Repeat("-", separatorWidth)

// State is the lifecycle stage of a VersionEntry.
type State int

const (
	// Draft entries still miss a version id, a date or messages.
	Draft State = iota
	// Renderable entries have everything Lines needs. Message punctuation
	// is still checked when the lines are produced.
	Renderable
)

func (s State) String() string {
	switch s {
	case Draft:
		return "draft"
	case Renderable:
		return "renderable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Message is a single categorized changelog line.
type Message struct {
	Category Category
	Text     string
}

// VersionEntry holds the metadata and messages of one version.
// Create entries through Document.NewVersion or Document.NewUnreleased.
type VersionEntry struct {
	id          VersionID
	date        time.Time
	datePending bool
	messages    []Message
}

// ID returns the version id of the entry.
func (e *VersionEntry) ID() VersionID {
	return e.id
}

// Date returns the release date and whether one has been set.
func (e *VersionEntry) Date() (time.Time, bool) {
	return e.date, !e.date.IsZero()
}

// SetVersion assigns the version id.
func (e *VersionEntry) SetVersion(id VersionID) {
	e.id = id
}

// SetDate assigns the release date. Only the calendar day is kept.
func (e *VersionEntry) SetDate(date time.Time) {
	e.date = truncateToDay(date)
	e.datePending = e.date.IsZero() && e.id.IsUnreleased()
}

// Release turns the entry into a dated release. It is how the unreleased
// placeholder is promoted once a version number is chosen.
func (e *VersionEntry) Release(id VersionID, date time.Time) {
	e.id = id
	e.SetDate(date)
}

// AddMessage appends a message under category. Punctuation is not checked
// here; see Lines.
func (e *VersionEntry) AddMessage(category Category, text string) error {
	if !category.Valid() {
		return &ValidationError{
			Version: e.id.String(),
			Field:   "category",
			Message: fmt.Sprintf("unknown category %s", category),
			Err:     ErrInvalidCategory,
		}
	}
	e.messages = append(e.messages, Message{Category: category, Text: text})
	return nil
}

// Add appends a message under the category with the given display name or key.
func (e *VersionEntry) Add(categoryName, text string) error {
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}
	return e.AddMessage(category, text)
}

// MajorFeature adds a "Major Features" message.
func (e *VersionEntry) MajorFeature(text string) {
	e.messages = append(e.messages, Message{Category: MajorFeatures, Text: text})
}

// Feature adds a "Features" message.
func (e *VersionEntry) Feature(text string) {
	e.messages = append(e.messages, Message{Category: Features, Text: text})
}

// Fix adds a "Bugfixes" message.
func (e *VersionEntry) Fix(text string) {
	e.messages = append(e.messages, Message{Category: Bugfixes, Text: text})
}

// Change adds a "Changes" message.
func (e *VersionEntry) Change(text string) {
	e.messages = append(e.messages, Message{Category: Changes, Text: text})
}

// Messages returns the messages in insertion order.
func (e *VersionEntry) Messages() []Message {
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Grouped returns the messages bucketed by category. Indexing by Category
// yields the category's messages in insertion order.
func (e *VersionEntry) Grouped() [categoryCount][]string {
	var groups [categoryCount][]string
	for _, m := range e.messages {
		groups[m.Category] = append(groups[m.Category], m.Text)
	}
	return groups
}

// State reports whether the entry is still a draft.
func (e *VersionEntry) State() State {
	if e.id.IsSet() && e.hasDate() && len(e.messages) > 0 {
		return Renderable
	}
	return Draft
}

// Lines produces the rendered lines of the entry, without line terminators.
func (e *VersionEntry) Lines() ([]string, error) {
	if err := e.checkComplete(); err != nil {
		return nil, err
	}

	groups := e.Grouped()
	lines := make([]string, 0, 3+2*len(e.messages))
	lines = append(lines,
		separator,
		"Version: "+e.versionLabel(),
		"Date: "+e.dateLabel(),
	)

	first := true
	for _, category := range Categories() {
		messages := groups[category]
		if len(messages) == 0 {
			continue
		}
		if !first {
			lines = append(lines, "")
		}
		first = false

		lines = append(lines, headerIndent+category.String()+":")
		for i, text := range messages {
			if !hasTerminalPunctuation(text) {
				return nil, &ValidationError{
					Version: e.id.String(),
					Field:   fmt.Sprintf("%s[%d]", category.Key(), i),
					Message: fmt.Sprintf("message must end with '.' or '!': %q", text),
					Err:     ErrInvalidMessage,
				}
			}
			lines = append(lines, itemPrefix+text)
		}
	}

	return lines, nil
}

func (e *VersionEntry) checkComplete() error {
	if !e.id.IsSet() {
		return &ValidationError{Field: "version", Message: "version id is not set", Err: ErrMissingVersionID}
	}
	if !e.hasDate() {
		return &ValidationError{Version: e.id.String(), Field: "date", Message: "release date is not set", Err: ErrMissingDate}
	}
	if len(e.messages) == 0 {
		return &ValidationError{Version: e.id.String(), Field: "changes", Message: "at least one message is required", Err: ErrEmptyEntry}
	}
	return nil
}

// hasDate reports whether the entry can render a date line. Only the
// unreleased placeholder may render the pending date.
func (e *VersionEntry) hasDate() bool {
	return !e.date.IsZero() || (e.id.IsUnreleased() && e.datePending)
}

func (e *VersionEntry) versionLabel() string {
	if e.id.IsUnreleased() {
		return "Unreleased"
	}
	return e.id.String()
}

func (e *VersionEntry) dateLabel() string {
	if e.date.IsZero() {
		return pendingDate
	}
	return e.date.Format(dateLayout)
}

func hasTerminalPunctuation(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!")
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
