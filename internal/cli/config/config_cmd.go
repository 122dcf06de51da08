// Package config provides the CLI configuration commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/spf13/cobra"

	"github.com/item-network/modpack/internal/cli/shared"
	"github.com/item-network/modpack/internal/config"
	clierrors "github.com/item-network/modpack/internal/errors"
)

var (
	cGreen = color.New(color.FgGreen).SprintFunc()
	cDim   = color.New(color.Faint).SprintFunc()
	cCyan  = color.New(color.FgCyan).SprintFunc()
)

// ConfigCmd is the parent of the configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage modpack configuration",
	Long: `Manage modpack configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (MODPACK_*)
  2. Project config (.modpack/config.yml)
  3. User config (~/.config/modpack/config.yml)
  4. Built-in defaults`,
	Example: `  # Show current configuration
  modpack config show

  # Set a configuration value
  modpack config set max_parallel 8

  # Create a project config
  modpack config init --project`,
	Annotations: map[string]string{shared.SkipConfigAnnotation: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user config, or the project config
with --project. The value is checked against the key's type.

Run 'modpack config keys' to list the available keys.`,
	Example: `  modpack config set check_git_tag true
  modpack config set view.max_width 100 --project`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config file",
	Long: `Create a config file holding every option with its default value.

By default the user config is created. Use --project for a config that
applies to the current directory only. Existing files are left unchanged
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	ConfigCmd.GroupID = shared.GroupConfiguration
	ConfigCmd.AddCommand(configShowCmd, configSetCmd, configKeysCmd, configInitCmd)

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configSetCmd.Flags().BoolP("project", "p", false, "Write to the project config (.modpack/config.yml)")
	configInitCmd.Flags().BoolP("project", "p", false, "Create project-level config (.modpack/config.yml)")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite existing config with defaults")
}

// projectConfigPath returns the --config override, if the root flag is present.
func projectConfigPath(cmd *cobra.Command) string {
	if f := cmd.Flag("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	projectPath := projectConfigPath(cmd)
	cfg, err := config.Load(projectPath)
	if err != nil {
		return clierrors.ConfigParseError(projectPath, err)
	}

	if projectPath == "" {
		projectPath = config.ProjectConfigPath()
	}
	userPath, _ := config.UserConfigPath()

	fmt.Fprintln(out, "Configuration Sources:")
	printSource(out, "user", userPath)
	printSource(out, "project", projectPath)
	fmt.Fprintf(out, "  %-8s %s\n\n", "env", config.EnvPrefix+"*")

	var data []byte
	if asJSON {
		data, err = json.Parser().Marshal(cfg.ToMap())
	} else {
		data, err = yaml.Parser().Marshal(cfg.ToMap())
	}
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func printSource(w io.Writer, name, path string) {
	status := cDim("(not found)")
	if _, err := os.Stat(path); err == nil {
		status = cGreen("(loaded)")
	}
	fmt.Fprintf(w, "  %-8s %s %s\n", name, path, status)
}

// targetConfigPath returns the user or project config file.
func targetConfigPath(cmd *cobra.Command) (string, error) {
	project, _ := cmd.Flags().GetBool("project")
	if project {
		if path := projectConfigPath(cmd); path != "" {
			return path, nil
		}
		return config.ProjectConfigPath(), nil
	}
	return config.UserConfigPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := targetConfigPath(cmd)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	key, value := args[0], args[1]
	if err := config.SetConfigValue(path, key, value); err != nil {
		var unknown config.ErrUnknownKey
		if errors.As(err, &unknown) {
			return clierrors.NewArgumentError(err.Error(), "List valid keys with: modpack config keys")
		}
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot set "+key)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", cGreen("✓"), key, value, path)
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		fmt.Fprintf(out, "%s %s\n", cCyan(key), cDim(fmt.Sprintf("(%s, default: %v)", schema.Type, schema.Default)))
		fmt.Fprintf(out, "    %s\n", schema.Description)
		if len(schema.AllowedValues) > 0 {
			fmt.Fprintf(out, "    one of: %v\n", schema.AllowedValues)
		}
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := targetConfigPath(cmd)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created config at %s\n", cGreen("✓"), path)
	return nil
}
