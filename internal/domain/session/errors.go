package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionActive = errors.New("session already active")
	ErrNoSession     = errors.New("no active session")
	ErrOperator      = errors.New("operator id is required")
)

// InputError rejects a reply to a prompt. The session keeps its state and
// everything collected so far.
type InputError struct {
	State  State
	Line   int
	Reason string
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}
