package types

import "fmt"

// ValidationError reports a malformed or missing field in a request or event.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PhaseSequenceError reports an operation attempted before the phase it
// depends on has happened. The session is left untouched.
type PhaseSequenceError struct {
	Operation string
	Requires  string
	Phase     Phase
}

func (e *PhaseSequenceError) Error() string {
	return fmt.Sprintf("%s requires %s first (session phase is %s)", e.Operation, e.Requires, e.Phase)
}
