package errs

import "errors"

// Execution client error taxonomy. Validation failures are rejected before
// any network call; unavailability is terminal after the retry budget.
var (
	EmptyCode            = errors.New("source code is empty")
	DangerousCode        = errors.New("source code matches a denied pattern")
	UnsupportedLanguage  = errors.New("language is not supported by the executor")
	ExecutionUnavailable = errors.New("cannot connect to execution service")
	ExecutionTimeout     = errors.New("execution result not ready within poll budget")
)
