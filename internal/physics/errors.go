package physics

import (
	"errors"
	"fmt"

	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

var (
	ErrNonFiniteTransform = errors.New("non-finite transform")
	ErrInvalidShape       = solver.ErrInvalidShape
	ErrInvalidAxis        = errors.New("joint axis has zero length")
	ErrJointCycle         = solver.ErrJointCycle
	ErrJointParent        = solver.ErrJointParent
	ErrMissingBody        = errors.New("missing rigid body")
	ErrNotMotorized       = errors.New("joint kind has no motor axis")
)

// ConfigurationError rejects malformed input to a construction step. The
// offending spawn is not inserted into the solver.
type ConfigurationError struct {
	Entity engine.Entity
	Op     string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: entity %d: %v", e.Op, e.Entity, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErr(entity engine.Entity, op string, err error) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Op: op, Err: err}
}

// ConsistencyError reports bookkeeping that disagrees with the solver, such
// as a solver body no entity owns. It is logged and the item skipped.
type ConsistencyError struct {
	Entity engine.Entity
	Handle solver.Handle
	Reason string
}

func (e *ConsistencyError) Error() string {
	if e.Entity == 0 {
		return fmt.Sprintf("consistency: handle %v: %s", e.Handle, e.Reason)
	}
	return fmt.Sprintf("consistency: entity %d handle %v: %s", e.Entity, e.Handle, e.Reason)
}
