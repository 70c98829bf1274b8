package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrImageUnsupported is returned by providers that cannot render images.
	ErrImageUnsupported = errors.New("image generation not supported")

	ErrNotRegistered = errors.New("provider not registered")
)

// GenerationError wraps any failure of a remote generation call:
// transport, authentication, quota or a malformed response.
type GenerationError struct {
	Op       string // "complete", "image" or "models"
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *GenerationError unless it already is one.
func Wrap(op, providerName string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Op: op, Provider: providerName, Err: err}
}
