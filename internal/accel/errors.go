package accel

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidParameter reports settings outside a mode's domain.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedMode reports a mode with no curve implementation.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrNumericInstability reports a curve that produced a non-finite value.
	ErrNumericInstability = errors.New("numeric instability")
)

// ValidationError collects every constraint a settings snapshot violates.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return "invalid parameter: " + e.Messages[0]
	}
	return "invalid parameters: " + strings.Join(e.Messages, "; ")
}

// Is matches ErrInvalidParameter.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameter
}
