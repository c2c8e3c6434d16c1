package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for negative or non-finite amounts, negative
// year counts and malformed rates or weights. Match with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkAmount validates a monetary input (investment amount, principal, selection)
func checkAmount(name string, v float64) error {
	if !isFinite(v) {
		return invalid("%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return invalid("%s must be non-negative, got %v", name, v)
	}
	return nil
}
