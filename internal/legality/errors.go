package legality

import (
	"errors"
	"fmt"
)

// #region invariant

// ErrInvariant matches every InvariantError with errors.Is.
var ErrInvariant = errors.New("invariant violation")

// InvariantError reports a defect in the rule tables or the engine itself.
// It is never a property of the record being verified.
type InvariantError struct {
	Op  string
	Err error
}

// Invariant wraps err as an InvariantError for op.
func Invariant(op string, err error) *InvariantError {
	return &InvariantError{Op: op, Err: err}
}

// Invariantf builds an InvariantError from a message.
func Invariantf(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvariant, e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvariant) hold.
func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// #endregion invariant
