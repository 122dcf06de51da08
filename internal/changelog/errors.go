package changelog

import (
	"errors"
	"fmt"
)

// Authoring errors. Every failure returned by this package wraps one of these,
// so callers can branch with errors.Is.
var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrMissingVersionID  = errors.New("missing version id")
	ErrMissingDate       = errors.New("missing release date")
	ErrEmptyEntry        = errors.New("version has no messages")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrNoVersions        = errors.New("changelog has no versions")
	ErrNoReleasedVersion = errors.New("changelog has no released versions")
	ErrDuplicateVersion  = errors.New("duplicate version")
	ErrMalformedSource   = errors.New("malformed changelog source")
)

// ValidationError describes an authoring problem with the version it belongs to.
type ValidationError struct {
	Version string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Version != "" {
		msg = fmt.Sprintf("version %s: %s", e.Version, msg)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
