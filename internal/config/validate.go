package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError points at the config file, and where known the line or
// key, that made loading fail.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.FilePath, e.Line, e.Column, e.Field, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateConfigFile checks a YAML config file before koanf merges it: the
// syntax must be valid and every key must be one of KnownKeys, so a typo
// such as max_paralel is reported instead of silently ignored.
// A missing or empty file is valid.
func ValidateConfigFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, os.ErrPermission):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlSyntaxError(filePath, err)
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return &ValidationError{FilePath: filePath, Line: root.Line, Column: root.Column, Message: "config must be a mapping of keys to values"}
	}
	return checkKeys(filePath, root, "")
}

// checkKeys walks a mapping node and rejects keys not in KnownKeys.
// Sections such as view must hold a mapping of their own keys.
func checkKeys(filePath string, mapping *yaml.Node, prefix string) error {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		path := prefix + keyNode.Value

		if _, ok := KnownKeys[path]; ok {
			continue
		}
		if !isSection(path) {
			return &ValidationError{
				FilePath: filePath, Line: keyNode.Line, Column: keyNode.Column,
				Field: path, Message: "unknown key (see 'modpack config keys')",
			}
		}
		if valueNode.Kind != yaml.MappingNode {
			return &ValidationError{
				FilePath: filePath, Line: valueNode.Line, Column: valueNode.Column,
				Field: path, Message: "must be a mapping",
			}
		}
		if err := checkKeys(filePath, valueNode, path+"."); err != nil {
			return err
		}
	}
	return nil
}

func isSection(path string) bool {
	for key := range KnownKeys {
		if strings.HasPrefix(key, path+".") {
			return true
		}
	}
	return false
}

// yaml.v3 reports syntax errors as "yaml: line N: message".
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func yamlSyntaxError(filePath string, err error) *ValidationError {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &ValidationError{FilePath: filePath, Message: strings.TrimPrefix(err.Error(), "yaml: ")}
	}
	line, _ := strconv.Atoi(m[1])
	return &ValidationError{FilePath: filePath, Line: line, Column: 1, Message: m[2]}
}

var configValidator = newConfigValidator()

// newConfigValidator reports fields by their koanf key, so errors name
// view.max_width rather than MaxWidth.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfigValues checks the merged configuration against the struct
// constraints and the rules that span fields.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := configValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fieldErr := fieldErrs[0]
			return &ValidationError{
				FilePath: filePath,
				Field:    keyPath(fieldErr.Namespace()),
				Message:  constraintMessage(fieldErr),
			}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if cfg.Output == cfg.Source {
		return &ValidationError{FilePath: filePath, Field: "output", Message: "must differ from source"}
	}
	if strings.HasPrefix(cfg.Output, "http://") || strings.HasPrefix(cfg.Output, "https://") {
		return &ValidationError{FilePath: filePath, Field: "output", Message: "must be a local path"}
	}
	return nil
}

// keyPath drops the struct name from a validator namespace:
// "Configuration.view.max_width" becomes "view.max_width".
func keyPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}
	return path
}

func constraintMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param()
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	}
	return "failed validation: " + fieldErr.Tag()
}
