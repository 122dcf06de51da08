package changelog

import (
	"bytes"
	_ "embed"
)

//go:embed template.yaml
var embeddedTemplate []byte

// Template returns the starter changelog.yaml written by "modpack changelog init".
func Template() []byte {
	return bytes.Clone(embeddedTemplate)
}

// LoadTemplate parses the embedded starter source.
func LoadTemplate() (*Document, error) {
	return LoadFromReader(bytes.NewReader(embeddedTemplate))
}
