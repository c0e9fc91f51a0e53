// Package fd provides constraint programming abstractions.
// This file defines the Variable interface for constraint variables that
// can hold domains and participate in constraints.
package fd

import "fmt"

// Variable represents a decision variable in a constraint satisfaction
// problem. Variables have identities, domains of possible values, and
// participate in constraints.
type Variable interface {
	// ID returns a unique identifier for this variable within its model.
	ID() int

	// Domain returns the current domain of possible values for this variable.
	Domain() Domain

	// IsBound returns true if the variable's domain is a singleton.
	IsBound() bool

	// Value returns the variable's value if IsBound() is true.
	// Panics if the variable is not bound.
	Value() int

	// String returns a human-readable representation of the variable.
	String() string
}

// FDVariable represents a finite-domain constraint variable. This is the
// variable type used for every assignment and auxiliary variable in the
// roster model.
//
// FDVariable stores the initial domain. During solving, the Solver uses
// the variable's ID to track current domains in SolverState via
// copy-on-write. This separation enables model immutability and O(1)
// state updates.
type FDVariable struct {
	id     int    // Unique identifier within the model
	domain Domain // Current domain of possible values
	name   string // Optional name for debugging
}

// NewFDVariable creates a new finite-domain variable with the given ID
// and domain. The variable is initially unbound unless domain is already
// a singleton.
func NewFDVariable(id int, domain Domain) *FDVariable {
	return &FDVariable{
		id:     id,
		domain: domain,
		name:   fmt.Sprintf("v%d", id),
	}
}

// NewFDVariableWithName creates a named finite-domain variable for easier
// debugging and logging.
func NewFDVariableWithName(id int, domain Domain, name string) *FDVariable {
	return &FDVariable{
		id:     id,
		domain: domain,
		name:   name,
	}
}

// ID returns the unique identifier of this variable.
func (v *FDVariable) ID() int {
	return v.id
}

// Domain returns the current domain of possible values.
func (v *FDVariable) Domain() Domain {
	return v.domain
}

// IsBound returns true if the variable has a single value in its domain.
func (v *FDVariable) IsBound() bool {
	return v.domain.IsSingleton()
}

// Value returns the bound value if the variable is bound. Panics if the
// variable is not bound.
func (v *FDVariable) Value() int {
	if !v.IsBound() {
		panic(fmt.Sprintf("variable %s is not bound (domain size: %d)", v.name, v.domain.Count()))
	}
	return v.domain.SingletonValue()
}

// TryValue returns the variable's value if it is bound; otherwise it
// returns 0 together with a descriptive error.
func (v *FDVariable) TryValue() (int, error) {
	if !v.IsBound() {
		return 0, fmt.Errorf("variable %s is not bound (domain size: %d)", v.name, v.domain.Count())
	}
	return v.domain.SingletonValue(), nil
}

// String returns a human-readable representation.
func (v *FDVariable) String() string {
	if v.IsBound() {
		return fmt.Sprintf("%s=%d", v.name, v.Value())
	}
	return fmt.Sprintf("%s∈%s", v.name, v.domain.String())
}

// Name returns the variable's name for debugging.
func (v *FDVariable) Name() string {
	return v.name
}

// SetDomain updates the variable's initial domain during model
// construction. Must NOT be called during solving: domain changes while
// solving are tracked via SolverState, not by mutating the variable.
func (v *FDVariable) SetDomain(domain Domain) {
	v.domain = domain
}
