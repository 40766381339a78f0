package cmd

import "fmt"

// ExitCodeError carries a process exit code through cobra's error return.
// The message has already been shown to the user.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError returns an ExitCodeError with the given code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
