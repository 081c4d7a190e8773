package core

import (
	"errors"
	"fmt"
)

// Envelope rejection outcomes. A structurally broken request (missing
// headers, wrong content type) and a request that fails signature
// verification map to different HTTP statuses and must never be conflated.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports an interaction payload that does not match any
// known variant shape. Path points at the offending field.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s: %s", e.Path, e.Message)
}

func NewValidationError(path, message string) *ValidationError {
	return &ValidationError{Path: path, Message: message}
}

// InvariantViolationError marks a decoder/dispatcher contract breach. This is
// an internal bug, never user-triggerable input, and must not crash the
// process or leak to the end user.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violated - " + e.Message
}

func NewInvariantViolation(message string) *InvariantViolationError {
	return &InvariantViolationError{Message: message}
}

// UnknownCommandError is returned when the platform delivers an application
// command this bot never registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unexpected application command name %q", e.Name)
}

// UnsupportedInteractionTypeError is returned for interaction discriminants
// outside the supported set.
type UnsupportedInteractionTypeError struct {
	Type int
}

func (e *UnsupportedInteractionTypeError) Error() string {
	return fmt.Sprintf("unexpected interaction type %d", e.Type)
}
