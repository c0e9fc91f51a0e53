package fd

// fixed.go: a trivial propagator that pins a single boolean variable to
// true or false. This is the propagator behind roster constraint
// families 5 (forced assignments) and 6 (rejected assignments): both are
// "x[i,j,k] is fixed to a known value", which needs no arithmetic beyond
// intersecting the variable's domain with a singleton.

import "fmt"

// FixedAssignment forces a single boolean variable to a known value.
type FixedAssignment struct {
	variable *FDVariable
	value    bool
	label    string
}

// NewFixedAssignment constructs a constraint pinning variable to value.
func NewFixedAssignment(variable *FDVariable, value bool, label string) (*FixedAssignment, error) {
	if variable == nil {
		return nil, fmt.Errorf("FixedAssignment %s: variable cannot be nil", label)
	}
	return &FixedAssignment{variable: variable, value: value, label: label}, nil
}

// Variables implements ModelConstraint.
func (f *FixedAssignment) Variables() []*FDVariable {
	return []*FDVariable{f.variable}
}

// Type implements ModelConstraint.
func (f *FixedAssignment) Type() string { return "FixedAssignment" }

// String implements ModelConstraint.
func (f *FixedAssignment) String() string {
	return fmt.Sprintf("FixedAssignment(%s: %d = %t)", f.label, f.variable.ID(), f.value)
}

// Propagate intersects the variable's domain with its fixed value's
// singleton domain.
func (f *FixedAssignment) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	d := solver.GetDomain(state, f.variable.ID())
	if d == nil || d.Count() == 0 {
		return nil, fmt.Errorf("FixedAssignment %s: variable %d has empty domain", f.label, f.variable.ID())
	}

	wanted := 1
	if f.value {
		wanted = 2
	}

	if d.IsSingleton() {
		if d.SingletonValue() != wanted {
			return nil, fmt.Errorf("FixedAssignment %s: variable %d already bound to the opposite value", f.label, f.variable.ID())
		}
		return state, nil
	}

	if !d.Has(wanted) {
		return nil, fmt.Errorf("FixedAssignment %s: variable %d cannot take the required value", f.label, f.variable.ID())
	}

	newDomain := NewBitSetDomainFromValues(d.MaxValue(), []int{wanted})
	newState, _ := solver.SetDomain(state, f.variable.ID(), newDomain)
	return newState, nil
}
