package searcher

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks a broken invariant between a SearchProblem and
// the trees built for it. It is never a domain outcome.
var ErrContractViolation = errors.New("contract violation")

// ContractViolation is the panic value raised by tree and engine operations.
// RunIteration recovers it and returns it as an error.
type ContractViolation struct {
	Op     string
	Reason string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContractViolation, c.Op, c.Reason)
}

func (c *ContractViolation) Unwrap() error {
	return ErrContractViolation
}

func violate(op string, format string, args ...any) {
	panic(&ContractViolation{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// recoverViolation turns a recovered *ContractViolation into *err and
// re-panics with anything else.
func recoverViolation(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if violation, ok := r.(*ContractViolation); ok {
		*err = violation
		return
	}
	panic(r)
}
