package core

import "fmt"

// InvariantError reports a broken internal invariant. It signals a defect in
// the engine rather than bad input; operations that detect one panic with it.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("brix: %s: %s", e.Op, e.Msg)
}

func invariantf(op, format string, args ...any) *InvariantError {
	return &InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// enforce panics with an InvariantError when cond does not hold.
func enforce(cond bool, op, format string, args ...any) {
	if !cond {
		panic(invariantf(op, format, args...))
	}
}
