package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# modpack configuration
# See 'modpack config -h' for commands, 'modpack config keys' for all options

# Changelog settings
source: changelog.yaml                # Changelog source: file path or http(s) URL
output: changelog.txt                 # Rendered changelog written next to info.json
manifest: info.json                   # Mod manifest the release version is checked against
remote_timeout: 5s                    # Timeout for fetching a remote source

# Checks
check_manifest: true                  # Compare the latest release with info.json
check_git_tag: false                  # Fail when a release tag is newer than the changelog
max_parallel: 4                       # Mod directories checked at once (1-64)

# Logging
log_level: warn                       # debug | info | warn | error

# Terminal view
view:
  plain: false                        # Disable colors and symbols
  max_width: 0                        # Wrap width (0 = terminal width)
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"source":         "changelog.yaml",
		"output":         "changelog.txt",
		"manifest":       "info.json",
		"remote_timeout": (5 * time.Second).String(),
		"check_manifest": true,
		// check_git_tag needs a git repository, so it stays opt-in.
		"check_git_tag": false,
		"max_parallel":  4,
		"log_level":     "warn",
		"view": map[string]interface{}{
			"plain":     false,
			"max_width": 0, // 0 means use the terminal width
		},
	}
}
