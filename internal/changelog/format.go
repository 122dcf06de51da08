package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

var (
	featureStyle = CategoryStyle{Color: color.New(color.FgGreen), Icon: "✓"}
	changeStyle  = CategoryStyle{Color: color.New(color.FgBlue), Icon: "~"}
	fixStyle     = CategoryStyle{Color: color.New(color.FgYellow), Icon: "⚡"}
	tuningStyle  = CategoryStyle{Color: color.New(color.FgMagenta), Icon: "⚖"}
	defaultStyle = CategoryStyle{Color: color.New(color.FgCyan), Icon: "•"}
)

// categoryStyles maps categories to their terminal styling.
// Categories without an entry use defaultStyle.
var categoryStyles = map[Category]CategoryStyle{
	MajorFeatures:   featureStyle,
	Features:        featureStyle,
	MinorFeatures:   featureStyle,
	Changes:         changeStyle,
	Bugfixes:        fixStyle,
	Optimizations:   tuningStyle,
	Balancing:       tuningStyle,
	CombatBalancing: tuningStyle,
}

func styleFor(c Category) CategoryStyle {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatDocument writes every version of d to w, newest first.
// Unlike Render it never fails on incomplete versions, so drafts can be
// inspected.
func FormatDocument(d *Document, w io.Writer, opts FormatOptions) error {
	for i, v := range d.Versions() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := FormatVersion(v, w, opts); err != nil {
			return fmt.Errorf("formatting version %s: %w", v.ID(), err)
		}
	}
	return nil
}

// FormatVersion writes a single version's messages to the writer.
func FormatVersion(v *VersionEntry, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(v, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	groups := v.Grouped()
	for _, category := range Categories() {
		if len(groups[category]) == 0 {
			continue
		}
		if err := writeCategorySection(category, groups[category], w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(v *VersionEntry, w io.Writer, opts FormatOptions) error {
	header := versionHeader(v)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

func versionHeader(v *VersionEntry) string {
	id := v.ID()
	date, dated := v.Date()

	label := "v" + id.String()
	switch {
	case id.IsUnreleased():
		label = "Unreleased"
	case !id.IsSet():
		label = "(no version)"
	}

	if dated {
		return fmt.Sprintf("%s (%s)", label, date.Format(sourceDateLayout))
	}
	return label
}

// writeCategorySection writes a single category with its messages.
func writeCategorySection(category Category, messages []string, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(category)

	if err := writeCategoryHeader(category, style, w, opts); err != nil {
		return err
	}

	for _, text := range messages {
		if err := writeMessage(text, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(category Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", category)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(category.String()))
	return err
}

// writeMessage writes a single message with optional wrapping.
func writeMessage(text string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatMessageSummary returns a brief one-line summary of a message.
func FormatMessageSummary(m Message, opts FormatOptions) string {
	text := truncateText(m.Text, 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", m.Category.Key(), text)
	}

	style := styleFor(m.Category)
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
