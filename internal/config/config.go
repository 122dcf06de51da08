// Package config provides hierarchical configuration management for modpack using koanf.
// Configuration is loaded with priority: environment variables > project config (.modpack/config.yml)
// > user config (~/.config/modpack/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "MODPACK_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the modpack CLI tool configuration
type Configuration struct {
	// Source is the changelog YAML, relative to the mod directory, or an http(s) URL.
	Source string `koanf:"source" validate:"required"`
	// Output is the rendered changelog.txt, relative to the mod directory.
	Output string `koanf:"output" validate:"required"`
	// Manifest is the info.json the release version is checked against.
	Manifest string `koanf:"manifest" validate:"required"`
	// RemoteTimeout bounds fetching a remote Source.
	RemoteTimeout time.Duration `koanf:"remote_timeout" validate:"min=0"`

	CheckManifest bool `koanf:"check_manifest"`
	CheckGitTag   bool `koanf:"check_git_tag"`

	// MaxParallel limits how many mod directories 'changelog check' handles at once.
	MaxParallel int `koanf:"max_parallel" validate:"min=1,max=64"`

	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	View ViewConfig `koanf:"view"`
}

// ViewConfig controls the terminal changelog view.
type ViewConfig struct {
	Plain    bool `koanf:"plain"`
	MaxWidth int  `koanf:"max_width" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .modpack/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: ~/.config/modpack/config.yml)
	UserConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	userPath := customPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	if !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, SourceUser); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project-level YAML config if present.
// Supports custom path override (for testing).
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	projectPath := ProjectConfigPath()
	if customPath != "" {
		projectPath = customPath
	}
	if !fileExists(projectPath) {
		return nil
	}
	if err := loadYAMLConfig(k, projectPath, SourceProject); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string, source ConfigSource) error {
	if err := ValidateConfigFile(path); err != nil {
		return fmt.Errorf("validating %s config: %w", source, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Source = expandHomePath(cfg.Source)
	cfg.Output = expandHomePath(cfg.Output)
	cfg.Manifest = expandHomePath(cfg.Manifest)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: MODPACK_MAX_PARALLEL -> max_parallel, MODPACK_VIEW_MAX_WIDTH -> view.max_width
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "view_"); ok {
		return "view." + rest
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return homeDir + path[1:]
		}
	}
	return path
}

// Defaults returns the configuration built from GetDefaults alone, ignoring
// config files and the environment. It panics if the defaults are invalid.
func Defaults() *Configuration {
	k := koanf.New(".")
	loadDefaults(k)
	cfg, err := finalizeConfig(k)
	if err != nil {
		panic(fmt.Sprintf("invalid default configuration: %v", err))
	}
	return cfg
}

// ToMap returns the configuration keyed like the config file, for display.
func (c *Configuration) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"source":         c.Source,
		"output":         c.Output,
		"manifest":       c.Manifest,
		"remote_timeout": c.RemoteTimeout.String(),
		"check_manifest": c.CheckManifest,
		"check_git_tag":  c.CheckGitTag,
		"max_parallel":   c.MaxParallel,
		"log_level":      c.LogLevel,
		"view": map[string]interface{}{
			"plain":     c.View.Plain,
			"max_width": c.View.MaxWidth,
		},
	}
}
