package session

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks actions rejected because they would break a
// data-model invariant. Callers report it to the user; it is never fatal.
var ErrInvariantViolation = errors.New("invariant violation")

var (
	// ErrLastSession is returned when deleting the only remaining session.
	ErrLastSession = fmt.Errorf("%w: at least one session must remain", ErrInvariantViolation)

	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrInvalidLanguage = errors.New("unsupported language")
)
