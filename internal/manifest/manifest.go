// Package manifest reads and validates a mod's info.json.
//
// Only the fields the packager needs are modeled. The declared version is
// the release the rendered changelog is cross-checked against.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/item-network/modpack/internal/changelog"
)

// FileName is the manifest file name inside a mod directory.
const FileName = "info.json"

// Manifest is the subset of info.json used for packaging.
type Manifest struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Version         string   `json:"version" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	FactorioVersion string   `json:"factorio_version"`
	Description     string   `json:"description"`
	Dependencies    []string `json:"dependencies"`

	path string
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string {
	return m.path
}

// ArchiveName returns the distributable name, "<name>_<version>".
func (m *Manifest) ArchiveName() string {
	return fmt.Sprintf("%s_%s", m.Name, m.Version)
}

// LoadDir loads info.json from a mod directory.
func LoadDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, FileName))
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	m := &Manifest{path: path}
	if err := k.UnmarshalWithConf("", m, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks required fields and the version format.
func (m *Manifest) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Use JSON field name in error messages
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	if err := validate.Struct(m); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return processValidateError(m.path, validationErrors)
		}
		return fmt.Errorf("validating manifest: %w", err)
	}

	if _, err := m.ReleaseVersion(); err != nil {
		return &FieldError{Path: m.path, Field: "version", Message: err.Error()}
	}
	return nil
}

// ReleaseVersion parses the declared version as a changelog release id.
// Pre-release and build metadata are rejected: the changelog format only
// knows major.minor.patch.
func (m *Manifest) ReleaseVersion() (changelog.VersionID, error) {
	if strings.Count(m.Version, ".") != 2 {
		return changelog.VersionID{}, fmt.Errorf("invalid version %q (expected: X.Y.Z)", m.Version)
	}

	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return changelog.VersionID{}, fmt.Errorf("invalid version %q: %w", m.Version, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return changelog.VersionID{}, fmt.Errorf("invalid version %q: pre-release and build metadata are not supported", m.Version)
	}

	return changelog.NewVersionID(uint(v.Major()), uint(v.Minor()), uint(v.Patch())), nil
}

// FieldError describes an invalid manifest field.
type FieldError struct {
	Path    string
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field '%s': %s", e.Path, e.Field, e.Message)
}

func processValidateError(path string, errs validator.ValidationErrors) error {
	joined := make([]error, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, &FieldError{
			Path:    path,
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return errors.Join(joined...)
}

func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
