package changelog

import (
	"io"
	"strings"
)

// Render writes the changelog text to w. Every line, including the last,
// is terminated by "\n".
//
// Rendering is all-or-nothing: if any version fails validation, nothing is
// written. Given the same Document it produces identical output.
func (d *Document) Render(w io.Writer) error {
	text, err := d.RenderString()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// RenderString is a convenience function that renders to a string.
func (d *Document) RenderString() (string, error) {
	lines, err := d.lines()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
