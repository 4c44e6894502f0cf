package calendar

import "fmt"

// Validation reasons
const (
	ReasonDateInPast    = "date in past"
	ReasonEmptyName     = "empty name"
	ReasonEmptySchedule = "empty schedule"
)

// ValidationError rejects input at the write boundary. It is always
// recoverable; callers re-prompt or re-render.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// PersistenceError wraps a gateway failure. The mutation that triggered it
// has not been applied in memory.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
