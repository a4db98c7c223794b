package autoarima

import (
	"errors"
	"fmt"
)

var errNonFiniteCriterion = errors.New("autoarima: information criterion is not finite")

// NoConvergingModelError is returned when no candidate model could be fitted
// under any differencing plan.
type NoConvergingModelError struct {
	// Attempts is the number of candidate fits tried.
	Attempts int
	// Last is the error of the last failed candidate.
	Last error
}

func (e *NoConvergingModelError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("autoarima: no converging model after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("autoarima: no converging model after %d attempts: %v", e.Attempts, e.Last)
}

func (e *NoConvergingModelError) Unwrap() error {
	return e.Last
}
