package sarima

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is returned for confidence levels outside (0, 1).
var ErrInvalidLevel = errors.New("sarima: confidence level must be in (0, 1)")

// InvalidOrderError is returned by Fit for orders that cannot be estimated.
type InvalidOrderError struct {
	Order  Order
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("sarima: invalid order %s: %s", e.Order, e.Reason)
}

// EstimationDivergedError is returned when the likelihood optimisation does
// not converge.
type EstimationDivergedError struct {
	Order  Order
	Reason string
	Err    error
}

func (e *EstimationDivergedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sarima: estimation of %s diverged: %s: %v", e.Order, e.Reason, e.Err)
	}
	return fmt.Sprintf("sarima: estimation of %s diverged: %s", e.Order, e.Reason)
}

func (e *EstimationDivergedError) Unwrap() error {
	return e.Err
}

// SingularCovarianceError is returned when the information matrix of the
// fitted coefficients is not invertible or numerically rank-deficient.
type SingularCovarianceError struct {
	Order         Order
	MinEigenvalue float64
}

func (e *SingularCovarianceError) Error() string {
	return fmt.Sprintf("sarima: singular information matrix for %s (min eigenvalue %g)", e.Order, e.MinEigenvalue)
}

// InvalidHorizonError is returned when a forecast horizon is below 1.
type InvalidHorizonError struct {
	Horizon int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("sarima: forecast horizon must be at least 1, got %d", e.Horizon)
}
