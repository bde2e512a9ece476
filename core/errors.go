// Package core holds the small set of types shared by every other package
// in this module: the step-level error taxonomy from the solver's error
// handling design.
package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a SolverError the way the step machine's recovery logic
// needs to distinguish them: recoverable kinds are retried by the step that
// produced them, fatal kinds abort the whole solve.
type Kind int

const (
	// Contradiction means unification or constraint simplification reported
	// an inconsistency. Recoverable by the parent TypeVariableStep or
	// DisjunctionStep, which tries the next candidate.
	Contradiction Kind = iota
	// Exhaustion means a step ran out of choices without producing a
	// solution. Recoverable the same way as Contradiction.
	Exhaustion
	// BudgetExceeded is driver-level: the wall-clock deadline or step-count
	// cap was hit. Not recoverable; unwinds every live scope.
	BudgetExceeded
	// InvariantViolation marks a state-transition bug (double-suspend,
	// use-after-done, an out-of-order transition). Always fatal.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case Contradiction:
		return "contradiction"
	case Exhaustion:
		return "exhaustion"
	case BudgetExceeded:
		return "budget_exceeded"
	case InvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// Recoverable reports whether the step that produced the error may try an
// alternative (the next binding candidate, the next disjunction choice)
// instead of propagating Done(Error) to its parent.
func (k Kind) Recoverable() bool {
	return k == Contradiction || k == Exhaustion
}

// SolverError is the error type returned by every step and by Solve. Only
// InvariantViolation errors carry a stack trace: Contradiction and
// Exhaustion are expected outcomes tried on every candidate binding or
// disjunction choice, so capturing a stack for each would be wasted work.
type SolverError struct {
	Kind    Kind
	Op      string
	Message string
	cause   error
}

func (e *SolverError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SolverError) Unwrap() error {
	return e.cause
}

// NewContradiction reports a unification/simplification inconsistency.
func NewContradiction(op, message string) *SolverError {
	return &SolverError{Kind: Contradiction, Op: op, Message: message}
}

// NewExhaustion reports a step running out of choices.
func NewExhaustion(op, message string) *SolverError {
	return &SolverError{Kind: Exhaustion, Op: op, Message: message}
}

// NewBudgetExceeded reports the driver hitting maxSteps or the deadline.
func NewBudgetExceeded(op, message string) *SolverError {
	return &SolverError{Kind: BudgetExceeded, Op: op, Message: message}
}

// NewInvariantViolation reports a state-machine bug. It wraps with
// errors.WithStack so the aborted solve carries a stack trace to whatever
// diagnostic tooling inspects it.
func NewInvariantViolation(op, message string) *SolverError {
	return &SolverError{
		Kind:    InvariantViolation,
		Op:      op,
		Message: message,
		cause:   errors.WithStack(fmt.Errorf("%s: %s", op, message)),
	}
}

// IsKind reports whether err is a *SolverError of the given kind.
func IsKind(err error, k Kind) bool {
	var se *SolverError
	if errors.As(err, &se) {
		return se.Kind == k
	}
	return false
}
