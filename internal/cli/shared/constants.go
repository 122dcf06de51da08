// Package shared provides constants and types used across CLI subpackages.
package shared

import (
	"context"
	"errors"
	"fmt"

	clierrors "github.com/item-network/modpack/internal/errors"
)

// Command group IDs shown in the root help output.
const (
	GroupGettingStarted = "getting-started"
	GroupChangelog      = "changelog"
	GroupConfiguration  = "configuration"
)

// Exit codes for the modpack CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates an invalid changelog, manifest or version mismatch
	ExitValidationFailed = 1

	// ExitOutOfSync indicates a rendered changelog.txt differs from its source
	ExitOutOfSync = 2

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingDependency indicates a required file or repository is missing
	ExitMissingDependency = 4

	// ExitTimeout indicates a remote source could not be fetched in time
	ExitTimeout = 5
)

// ExitError carries an exit code for an error that has already been reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingDependency
		}
	}
	return ExitValidationFailed
}

// SkipConfigAnnotation marks commands (and their children) that must run
// even when the configuration files are invalid.
const SkipConfigAnnotation = "modpack/skip-config"
