package sandbox

import "errors"

var (
	ErrSandbox   = errors.New("sandbox error")
	ErrMount     = errors.New("sandbox mount failed")
	ErrCleanup   = errors.New("failed to clean the sandbox")
	ErrExecution = errors.New("sandboxed execution failed")
)
