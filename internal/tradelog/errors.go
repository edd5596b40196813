package tradelog

import "fmt"

// PersistenceError indicates a failure loading or saving the trade log.
// The caller decides whether to start empty or abort.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError indicates user input the log refuses to record, such as
// a non-positive entry price or negative capital.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}
