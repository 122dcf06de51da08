package changelog

import (
	"fmt"
	"strings"
)

// Category is a changelog section. Constants are declared in display order.
type Category int

const (
	MajorFeatures Category = iota
	Features
	MinorFeatures
	Graphics
	Sounds
	Optimizations
	Balancing
	CombatBalancing
	CircuitNetwork
	Changes
	Bugfixes
	Modding
	Scripting
	Gui
	Control
	Translation
	Debug
	EaseOfUse
	Info
	Locale

	categoryCount
)

var categoryNames = [categoryCount]string{
	MajorFeatures:   "Major Features",
	Features:        "Features",
	MinorFeatures:   "Minor Features",
	Graphics:        "Graphics",
	Sounds:          "Sounds",
	Optimizations:   "Optimizations",
	Balancing:       "Balancing",
	CombatBalancing: "Combat Balancing",
	CircuitNetwork:  "Circuit Network",
	Changes:         "Changes",
	Bugfixes:        "Bugfixes",
	Modding:         "Modding",
	Scripting:       "Scripting",
	Gui:             "Gui",
	Control:         "Control",
	Translation:     "Translation",
	Debug:           "Debug",
	EaseOfUse:       "Ease of use",
	Info:            "Info",
	Locale:          "Locale",
}

// Categories returns every category in display order.
func Categories() []Category {
	categories := make([]Category, categoryCount)
	for i := range categories {
		categories[i] = Category(i)
	}
	return categories
}

// Valid reports whether c is a member of the registry.
func (c Category) Valid() bool {
	return c >= 0 && c < categoryCount
}

// Index returns the display position of c, or -1 if c is not a known category.
func (c Category) Index() int {
	if !c.Valid() {
		return -1
	}
	return int(c)
}

// String returns the display name used in rendered section headers.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Key returns the identifier used in YAML sources, e.g. "ease_of_use".
func (c Category) Key() string {
	return categoryKey(c.String())
}

// ParseCategory resolves a display name or key to a Category.
// Matching ignores case and treats spaces and underscores alike.
func ParseCategory(name string) (Category, error) {
	key := categoryKey(strings.TrimSpace(name))
	for _, c := range Categories() {
		if c.Key() == key {
			return c, nil
		}
	}
	return 0, &ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("unknown category %q", name),
		Err:     ErrInvalidCategory,
	}
}

func categoryKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
