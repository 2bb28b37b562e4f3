package navigator

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned by the engine matches exactly one of
// them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
	ErrStalePress   = errors.New("stale button press")
)

var (
	ErrFinished     = fmt.Errorf("%w: workflow already finished", ErrInvalidState)
	ErrNotManual    = fmt.Errorf("%w: done is only valid on manual steps", ErrInvalidState)
	ErrNoBackButton = fmt.Errorf("%w: step has no back button", ErrInvalidState)
	ErrNoHistory    = fmt.Errorf("%w: nothing to go back to", ErrInvalidState)

	ErrIncompleteStep = fmt.Errorf("%w: required selections missing", ErrValidation)
	ErrUnknownButton  = fmt.Errorf("%w: unknown button", ErrValidation)
	ErrBadCallback    = fmt.Errorf("%w: malformed callback data", ErrValidation)
)

// StaleError is returned when a press comes from a keyboard for another step.
type StaleError struct {
	Pressed string
	Current string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s: pressed on step %q while on step %q", ErrStalePress, e.Pressed, e.Current)
}

func (e *StaleError) Unwrap() error { return ErrStalePress }

// IncompleteError names the radio groups a manual step still needs.
type IncompleteError struct {
	Step   string
	Groups []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: step %q needs a choice for %s", ErrIncompleteStep, e.Step, strings.Join(e.Groups, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteStep }
