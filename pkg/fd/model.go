// Package fd provides constraint programming infrastructure.
// This file defines the Model abstraction for declaratively building
// constraint satisfaction problems.
package fd

import (
	"fmt"
	"sync"
)

// Model represents a constraint satisfaction problem (CSP) declaratively.
// A model consists of variables, constraints, and solver configuration.
// Models are constructed incrementally, then treated as immutable during
// solving, so several Solvers may read one Model concurrently.
// (pkg/roster.SearchDriver.SolveWithLadder builds a separate Model per
// rung.)
type Model struct {
	variables     []*FDVariable
	constraints   []ModelConstraint
	variableIndex map[int]*FDVariable
	maxDomainSize int
	config        *SolverConfig
	mu            sync.RWMutex
}

// ModelConstraint represents a constraint within a model. Constraints
// restrict the values that variables can take simultaneously.
//
// ModelConstraints are immutable after creation and safe for concurrent
// access.
type ModelConstraint interface {
	// Variables returns the variables involved in this constraint.
	Variables() []*FDVariable

	// Type returns a string identifying the constraint type.
	Type() string

	// String returns a human-readable representation.
	String() string
}

// NewModel creates a new empty constraint model with default configuration.
func NewModel() *Model {
	return &Model{
		variables:     make([]*FDVariable, 0),
		constraints:   make([]ModelConstraint, 0),
		variableIndex: make(map[int]*FDVariable),
		config:        DefaultSolverConfig(),
	}
}

// NewModelWithConfig creates a model with custom solver configuration.
func NewModelWithConfig(config *SolverConfig) *Model {
	if config == nil {
		config = DefaultSolverConfig()
	}
	return &Model{
		variables:     make([]*FDVariable, 0),
		constraints:   make([]ModelConstraint, 0),
		variableIndex: make(map[int]*FDVariable),
		config:        config,
	}
}

// NewVariable creates and adds a new variable to the model with the
// specified domain.
func (m *Model) NewVariable(domain Domain) *FDVariable {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.variables)
	variable := NewFDVariable(id, domain)

	m.variables = append(m.variables, variable)
	m.variableIndex[id] = variable

	if domain.MaxValue() > m.maxDomainSize {
		m.maxDomainSize = domain.MaxValue()
	}

	return variable
}

// NewVariableWithName creates a named variable for easier debugging.
func (m *Model) NewVariableWithName(domain Domain, name string) *FDVariable {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.variables)
	variable := NewFDVariableWithName(id, domain, name)

	m.variables = append(m.variables, variable)
	m.variableIndex[id] = variable

	if domain.MaxValue() > m.maxDomainSize {
		m.maxDomainSize = domain.MaxValue()
	}

	return variable
}

// NewVariables creates multiple variables with the same domain.
func (m *Model) NewVariables(count int, domain Domain) []*FDVariable {
	variables := make([]*FDVariable, count)
	for i := 0; i < count; i++ {
		variables[i] = m.NewVariable(domain)
	}
	return variables
}

// GetVariable retrieves a variable by its ID. Returns nil if the ID
// doesn't exist.
func (m *Model) GetVariable(id int) *FDVariable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variableIndex[id]
}

// Variables returns all variables in the model. The returned slice must
// not be modified.
func (m *Model) Variables() []*FDVariable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variables
}

// VariableCount returns the number of variables in the model.
func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}

// AddConstraint adds a constraint to the model.
func (m *Model) AddConstraint(constraint ModelConstraint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints = append(m.constraints, constraint)
}

// Constraints returns all constraints in the model. The returned slice
// must not be modified.
func (m *Model) Constraints() []ModelConstraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.constraints
}

// ConstraintCount returns the number of constraints in the model.
func (m *Model) ConstraintCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// Config returns the solver configuration for this model.
func (m *Model) Config() *SolverConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig updates the solver configuration. Should be called before
// solving begins.
func (m *Model) SetConfig(config *SolverConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if config != nil {
		m.config = config
	}
}

// MaxDomainSize returns the largest domain size in the model.
func (m *Model) MaxDomainSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxDomainSize
}

// String returns a human-readable representation of the model.
func (m *Model) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf("Model{variables: %d, constraints: %d, maxDomain: %d}",
		len(m.variables), len(m.constraints), m.maxDomainSize)
}

// Validate checks if the model is well-formed and ready for solving.
// Returns an error if any variable has an empty domain, or any
// constraint references a variable that isn't part of this model.
func (m *Model) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.variables {
		if v.Domain().Count() == 0 {
			return fmt.Errorf("variable %s has empty domain", v.Name())
		}
	}

	for _, c := range m.constraints {
		for _, v := range c.Variables() {
			if m.variableIndex[v.ID()] == nil {
				return fmt.Errorf("constraint %s references unknown variable %d", c.Type(), v.ID())
			}
		}
	}

	return nil
}
