package optimizer

import (
	"fmt"
	"time"
)

// ValidationError marks a request the normalizer rejected. Maps to a 4xx
// response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InfeasibleError means the model admits no solution: the caller's fixed
// assignments conflict with each other or with the bench arithmetic.
type InfeasibleError struct{}

func (e *InfeasibleError) Error() string {
	return "lineup optimization failed due to conflicting constraints"
}

// TimeoutError means the budget expired before any feasible lineup was
// found. Distinct from InfeasibleError: a timeout proves nothing.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no lineup found within the %s solver time budget", e.Budget)
}
