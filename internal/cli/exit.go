package cli

import "fmt"

// ExitError asks main to exit with Code without printing anything else.
// The child process has already reported its own failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
