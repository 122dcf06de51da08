package errors

import "fmt"

// Common error messages for the modpack CLI.
// These templates ensure consistent, actionable error messages.

// MissingSource creates an error for a missing changelog source file.
func MissingSource(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("changelog source not found: %s", path),
		"Create a starter source with: modpack changelog init",
		"Or point --source at an existing changelog YAML",
	)
}

// MissingManifest creates an error for a missing info.json.
func MissingManifest(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("mod manifest not found: %s", path),
		"Run the command from the mod directory that holds info.json",
		"Or disable the check with: modpack config set check_manifest false",
	)
}

// InvalidManifest creates an error for an info.json that fails validation.
func InvalidManifest(path string, err error) *CLIError {
	return WrapWithMessage(err, Validation,
		fmt.Sprintf("invalid mod manifest: %s", path),
		"info.json needs name, version, title and author",
		"The version must be a plain release such as 1.2.3",
	)
}

// InvalidChangelog creates an error for a changelog that cannot be rendered.
func InvalidChangelog(err error) *CLIError {
	return WrapWithMessage(err, Validation,
		"invalid changelog",
		"Every version needs a date and at least one message",
		"Every message must end with '.' or '!'",
		"Category keys are lowercase with underscores, e.g. major_features or ease_of_use",
	)
}

// VersionMismatch creates an error when the changelog and declared release disagree.
func VersionMismatch(err error) *CLIError {
	return WrapWithMessage(err, Validation,
		"release version mismatch",
		"Add a changelog entry for the declared version",
		"Or bump the version in info.json to the latest changelog release",
		"Promote the unreleased entry by giving it a version and date",
	)
}

// NoReleasedVersion creates an error when only the unreleased entry exists.
func NoReleasedVersion(err error) *CLIError {
	return WrapWithMessage(err, Validation,
		"changelog has no released version",
		"Give the unreleased entry a version and date before releasing",
	)
}

// OutOfSync creates an error when changelog.txt differs from its source.
func OutOfSync(err error) *CLIError {
	return WrapWithMessage(err, Validation,
		"rendered changelog is out of date",
		"Regenerate it with: modpack changelog render",
	)
}

// VersionNotFound creates an error when a requested version is not in the changelog.
func VersionNotFound(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"version not found",
		"List versions with: modpack changelog view",
		"Use 'unreleased' for the pending entry",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config: %s", path),
		"Check the file for YAML syntax errors",
		"Show all keys with: modpack config keys",
		"Reset to defaults with: modpack config init --force",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'modpack <command> --help' to see valid options",
	)
}

// RemoteFetchError creates an error when a remote changelog cannot be fetched.
func RemoteFetchError(url string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to fetch changelog from %s", url),
		"Check your network connection and the URL",
		"Raise the timeout with: MODPACK_REMOTE_TIMEOUT=30s",
	)
}

// DirectoryNotFound creates an error for missing directory.
func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"Check that the path is correct",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Initialize with: git init",
		"Or run without --git to skip the tag check",
	)
}
