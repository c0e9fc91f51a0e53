package roster

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors tested with errors.Is; the detail types below wrap them
// and are tested with errors.As when a caller needs the offending
// (day, task) pairs or keys, not just the error class.
var (
	// ErrInconsistentInputs: task sets from the roster and demand
	// streams disagree, or a reference names an unknown task/person.
	ErrInconsistentInputs = errors.New("roster: inconsistent inputs")

	// ErrConsistency: a quota invariant is violated (W > P or E > P
	// for some (day, task)).
	ErrConsistency = errors.New("roster: quota consistency violated")

	// ErrShape: a matrix or vector handed to the ModelBuilder does not
	// match the problem's (D, T) or (U,) dimensions.
	ErrShape = errors.New("roster: shape mismatch")

	// ErrUnknownUnit: a group operation names a key absent from the
	// current roster.
	ErrUnknownUnit = errors.New("roster: unknown unit key")
)

// InconsistentInputsError reports the Normalizer's cross-stream
// validation failure (the source's ConsistencyBetweenFilesError,
// generalized: task-set mismatch, or an availability/demand reference to
// an unknown task or person key).
type InconsistentInputsError struct {
	Reason string
}

func (e *InconsistentInputsError) Error() string {
	return fmt.Sprintf("roster: inconsistent inputs: %s", e.Reason)
}

func (e *InconsistentInputsError) Unwrap() error { return ErrInconsistentInputs }

// QuotaViolation names one (day, task) pair where a demand-matrix
// invariant does not hold.
type QuotaViolation struct {
	Day, Task int
	Reason    string
}

// ConsistencyError lists every (day, task) pair where W[j,k] > P[j,k] or
// E[j,k] > P[j,k], raised by the ModelBuilder's pre-check before a solve
// is attempted.
type ConsistencyError struct {
	Violations []QuotaViolation
}

func (e *ConsistencyError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("(day=%d,task=%d): %s", v.Day, v.Task, v.Reason)
	}
	return fmt.Sprintf("roster: quota consistency violated: %s", strings.Join(parts, "; "))
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

// ShapeError reports a matrix/vector dimension mismatch handed to the
// ModelBuilder.
type ShapeError struct {
	Field    string
	Expected string
	Got      string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("roster: shape mismatch on %s: expected %s, got %s", e.Field, e.Expected, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// UnknownUnitError reports a group operation referencing an absent key.
type UnknownUnitError struct {
	Key string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("roster: unknown unit key %q", e.Key)
}

func (e *UnknownUnitError) Unwrap() error { return ErrUnknownUnit }
