package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: el registro pedido no existe.
	ErrNotFound = errors.New("not found")
	// ErrMutationFailed: stage o commit fallaron y el cambio se revirtió.
	ErrMutationFailed = errors.New("mutation failed")
	// ErrConstraint: violación de unique / foreign key. Siempre llega envuelto en ErrMutationFailed.
	ErrConstraint = errors.New("constraint violation")
)

// MutationError lleva el recurso y la operación que fallaron.
type MutationError struct {
	Resource string
	Op       string
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Resource, ErrMutationFailed, e.Err)
}

func (e *MutationError) Unwrap() []error { return []error{ErrMutationFailed, e.Err} }

// Constraint envuelve una violación de integridad con el nombre del constraint.
func Constraint(name string, cause error) error {
	if name == "" {
		return fmt.Errorf("%w: %v", ErrConstraint, cause)
	}
	return fmt.Errorf("%w %s: %v", ErrConstraint, name, cause)
}
