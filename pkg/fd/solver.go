// Package fd implements a backtracking CSP solver with copy-on-write
// state management, built to enumerate every feasible solution to a
// roster-scheduling instance rather than stop at the first one.
//
// # Architecture overview
//
// The solver separates immutable problem definition from mutable solving
// state:
//
//	Model (immutable during solving):
//	  - Variables with initial domains
//	  - Constraints that reference variables
//	  - Solver configuration (heuristics)
//
//	SolverState (mutable, copy-on-write):
//	  - Sparse chain of domain modifications
//	  - O(1) cost to create new state node
//	  - Pooled for low GC pressure
//
// # How constraint propagation works
//
// Constraints communicate domain changes via the SolverState:
//
//  1. Constraint reads current domains: GetDomain(state, varID)
//  2. Constraint computes a domain reduction
//  3. Constraint creates a new state: SetDomain(state, varID, newDomain)
//  4. The process repeats until a fixed point
//
// Each state node is tiny and creation is O(1). Backtracking just
// discards state nodes.
package fd

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Solver performs backtracking search to find solutions to a constraint
// satisfaction problem. It enumerates ALL solutions up to a caller
// supplied cap, rather than stopping at the first feasible assignment,
// because roster scheduling calls for inspecting the space of feasible
// rosters rather than a single ranked answer.
//
// Thread safety: Solver instances are NOT thread-safe. The Model they
// reference is read-only and safe to share across multiple Solver
// instances, so concurrent solves each construct their own Solver.
// pkg/roster's relaxation-ladder rungs go further and each build their
// own Model as well, since each rung omits different constraints.
type Solver struct {
	model *Model

	config *SolverConfig

	statePool *sync.Pool

	monitor *SolverMonitor

	// baseState caches the last root-level propagated state from Solve.
	// When present, GetDomain(nil, varID) reads domains from this state
	// rather than the model's initial domains.
	baseState *SolverState
}

// SolverState represents the mutable state of the solver at a point in
// search. States are organized as a persistent data structure: each
// state holds a pointer to its parent plus the single domain that was
// modified relative to that parent. This sparse representation makes
// "copying" state at each search node O(1) instead of O(n).
//
// States are pooled and reused to minimize GC pressure.
type SolverState struct {
	parent *SolverState

	modifiedVarID int

	modifiedDomain Domain

	depth int

	// refCount tracks the number of active references to this state
	// node. When it drops to zero, the node is returned to the pool.
	refCount atomic.Int64
}

// NewSolver creates a solver for the given model. The model should be
// fully constructed before creating the solver.
func NewSolver(model *Model) *Solver {
	return &Solver{
		model:  model,
		config: model.Config(),
		statePool: &sync.Pool{
			New: func() interface{} {
				return &SolverState{}
			},
		},
	}
}

// NewSolverWithConfig creates a solver with custom configuration that
// overrides the model's own configuration.
func NewSolverWithConfig(model *Model, config *SolverConfig) *Solver {
	if config == nil {
		config = model.Config()
	}
	return &Solver{
		model:  model,
		config: config,
		statePool: &sync.Pool{
			New: func() interface{} {
				return &SolverState{}
			},
		},
	}
}

// SetMonitor enables statistics collection during solving.
func (s *Solver) SetMonitor(monitor *SolverMonitor) {
	s.monitor = monitor
}

// GetDomain returns the current domain of a variable in the given state.
// Walks the state chain to find the most recent domain for the variable.
func (s *Solver) GetDomain(state *SolverState, varID int) Domain {
	for current := state; current != nil; current = current.parent {
		if current.modifiedVarID == varID && current.modifiedDomain != nil {
			return current.modifiedDomain
		}
	}

	if state == nil && s.baseState != nil {
		for current := s.baseState; current != nil; current = current.parent {
			if current.modifiedVarID == varID && current.modifiedDomain != nil {
				return current.modifiedDomain
			}
		}
	}

	if varID >= 0 && varID < len(s.model.variables) {
		return s.model.variables[varID].Domain()
	}

	return nil
}

// SetDomain creates a new state with an updated domain for the specified
// variable. Returns the new state and a boolean indicating whether the
// domain actually changed. If the domain is identical to the current
// domain, returns the original state and false, avoiding unnecessary
// propagation.
func (s *Solver) SetDomain(state *SolverState, varID int, domain Domain) (*SolverState, bool) {
	currentDomain := s.GetDomain(state, varID)
	if currentDomain.Equal(domain) {
		return state, false
	}

	newState := s.statePool.Get().(*SolverState)
	newState.parent = state
	newState.modifiedVarID = varID
	newState.modifiedDomain = domain

	if state != nil {
		newState.depth = state.depth + 1
		state.refCount.Add(1)
	} else {
		newState.depth = 1
	}

	newState.refCount.Store(1)

	return newState, true
}

// propagate runs all propagation constraints to a fixed point. Returns a
// new state with pruned domains, or an error if inconsistency is
// detected.
func (s *Solver) propagate(state *SolverState) (*SolverState, error) {
	constraints := make([]PropagationConstraint, 0)

	for _, mc := range s.model.Constraints() {
		if pc, ok := mc.(PropagationConstraint); ok {
			constraints = append(constraints, pc)
		}
	}

	if len(constraints) == 0 {
		return state, nil
	}

	currentState := state
	maxIterations := 1000 // guards against a buggy constraint looping forever

	for iteration := 0; iteration < maxIterations; iteration++ {
		changed := false

		for _, constraint := range constraints {
			newState, err := constraint.Propagate(s, currentState)
			if err != nil {
				if s.monitor != nil {
					s.monitor.RecordBacktrack()
				}
				return nil, err
			}

			if newState != currentState {
				changed = true
				currentState = newState
			}
		}

		if !changed {
			return currentState, nil
		}
	}

	return nil, fmt.Errorf("propagation failed to reach fixed point after %d iterations", maxIterations)
}

// ReleaseState returns a state to the pool for reuse. Should be called
// when backtracking to free memory. Only the state itself is pooled, not
// domains (they are immutable and potentially shared).
func (s *Solver) ReleaseState(state *SolverState) {
	for cur := state; cur != nil; {
		if cur.refCount.Add(-1) > 0 {
			return
		}

		parent := cur.parent

		cur.parent = nil
		cur.modifiedDomain = nil
		cur.modifiedVarID = 0
		cur.depth = 0
		cur.refCount.Store(0)

		s.statePool.Put(cur)

		cur = parent
	}
}

// Solve finds solutions to the constraint satisfaction problem. Returns
// up to maxSolutions solutions, or all solutions if maxSolutions <= 0.
// Solutions are returned as slices of integers, one per variable in
// model order.
//
// The search can be cancelled via ctx, enabling wall-time caps: callers
// construct ctx with a deadline and Solve stops enumerating as soon as
// that deadline passes, returning whatever solutions were captured so
// far. This is exactly the wall-time-cap-plus-solution-cap contract the
// roster SearchDriver needs, so SearchDriver wraps Solve directly rather
// than reimplementing backtracking.
func (s *Solver) Solve(ctx context.Context, maxSolutions int) ([][]int, error) {
	if err := s.model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	if s.monitor != nil {
		defer s.monitor.FinishSearch()
		for range s.model.Constraints() {
			s.monitor.RecordConstraint()
		}
	}

	initialState := (*SolverState)(nil)

	if s.monitor != nil {
		s.monitor.StartPropagation()
	}
	propagatedState, err := s.propagate(initialState)
	if err != nil {
		// Root-level inconsistency: no solutions exist.
		if s.monitor != nil {
			s.monitor.EndPropagation()
		}
		return [][]int{}, nil
	}

	s.baseState = propagatedState
	if s.baseState != nil {
		s.baseState.refCount.Add(1)
	}

	if s.monitor != nil {
		s.monitor.EndPropagation()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.isComplete(propagatedState) {
		solution := s.extractSolution(propagatedState)
		if s.monitor != nil {
			s.monitor.RecordSolution()
		}
		return [][]int{solution}, nil
	}

	solutions := make([][]int, 0)
	s.search(ctx, propagatedState, &solutions, maxSolutions)

	return solutions, ctx.Err()
}

// search performs iterative backtracking search, using an explicit stack
// to avoid deep recursion over long roster horizons.
func (s *Solver) search(ctx context.Context, state *SolverState, solutions *[][]int, maxSolutions int) {
	type searchFrame struct {
		state      *SolverState
		varID      int
		values     []int
		valueIndex int
	}

	stack := make([]*searchFrame, 0, 100)

	varID, values := s.selectVariable(state)
	if varID == -1 {
		if s.isComplete(state) {
			solution := s.extractSolution(state)
			*solutions = append(*solutions, solution)
			if s.monitor != nil {
				s.monitor.RecordSolution()
			}
		}
		return
	}

	stack = append(stack, &searchFrame{
		state:      state,
		varID:      varID,
		values:     values,
		valueIndex: 0,
	})

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame := stack[len(stack)-1]

		if frame.valueIndex >= len(frame.values) {
			s.ReleaseState(frame.state)
			stack = stack[:len(stack)-1]

			if s.monitor != nil {
				s.monitor.RecordBacktrack()
			}

			continue
		}

		if s.monitor != nil {
			s.monitor.RecordNode()
			s.monitor.RecordDepth(len(stack))
		}

		value := frame.values[frame.valueIndex]
		frame.valueIndex++

		domain := s.GetDomain(frame.state, frame.varID)
		newDomain := NewBitSetDomainFromValues(domain.MaxValue(), []int{value})
		newState, _ := s.SetDomain(frame.state, frame.varID, newDomain)

		if s.monitor != nil {
			s.monitor.StartPropagation()
		}
		propagatedState, err := s.propagate(newState)
		if s.monitor != nil {
			s.monitor.EndPropagation()
		}
		if err != nil {
			s.ReleaseState(newState)
			continue
		}

		if s.isComplete(propagatedState) {
			solution := s.extractSolution(propagatedState)
			*solutions = append(*solutions, solution)

			if s.monitor != nil {
				s.monitor.RecordSolution()
			}

			s.ReleaseState(propagatedState)

			if maxSolutions > 0 && len(*solutions) >= maxSolutions {
				return
			}

			continue
		}

		nextVarID, nextValues := s.selectVariable(propagatedState)
		if nextVarID == -1 {
			s.ReleaseState(propagatedState)
			continue
		}

		stack = append(stack, &searchFrame{
			state:      propagatedState,
			varID:      nextVarID,
			values:     nextValues,
			valueIndex: 0,
		})
	}
}

// isComplete returns true if all variables are bound (singleton domains).
func (s *Solver) isComplete(state *SolverState) bool {
	for i := 0; i < s.model.VariableCount(); i++ {
		domain := s.GetDomain(state, i)
		if !domain.IsSingleton() {
			return false
		}
	}
	return true
}

// extractSolution extracts the variable assignments from a complete state.
func (s *Solver) extractSolution(state *SolverState) []int {
	solution := make([]int, s.model.VariableCount())
	for i := 0; i < s.model.VariableCount(); i++ {
		domain := s.GetDomain(state, i)
		if domain.IsSingleton() {
			solution[i] = domain.SingletonValue()
		}
	}
	return solution
}

// selectVariable chooses the next variable to branch on using the
// configured heuristic. Returns the variable ID and the ordered list of
// values to try. Returns (-1, nil) if all variables are bound.
func (s *Solver) selectVariable(state *SolverState) (int, []int) {
	bestVar := -1
	bestScore := float64(-1)
	var bestValues []int

	for i := 0; i < s.model.VariableCount(); i++ {
		domain := s.GetDomain(state, i)
		if domain.IsSingleton() {
			continue
		}

		score := s.computeVariableScore(i, domain)
		if bestVar == -1 || score < bestScore {
			bestVar = i
			bestScore = score
			bestValues = make([]int, 0, domain.Count())
			domain.IterateValues(func(v int) {
				bestValues = append(bestValues, v)
			})
		}
	}

	if bestVar == -1 {
		return -1, nil
	}

	orderedValues := s.orderValues(bestValues)

	return bestVar, orderedValues
}

// computeVariableScore computes a score for variable selection heuristics.
// Lower scores are selected first.
func (s *Solver) computeVariableScore(varID int, domain Domain) float64 {
	switch s.config.VariableHeuristic {
	case HeuristicDom:
		return float64(domain.Count())

	case HeuristicDomDeg:
		degree := s.computeVariableDegree(varID)
		return float64(domain.Count()) / float64(1+degree)

	case HeuristicDeg:
		degree := s.computeVariableDegree(varID)
		return -float64(degree)

	case HeuristicLex:
		return float64(varID)

	default:
		return float64(domain.Count())
	}
}

// computeVariableDegree returns the number of constraints involving the
// variable.
func (s *Solver) computeVariableDegree(varID int) int {
	degree := 0
	for _, constraint := range s.model.Constraints() {
		for _, v := range constraint.Variables() {
			if v.ID() == varID {
				degree++
				break
			}
		}
	}
	return degree
}

// orderValues orders domain values according to the configured heuristic.
func (s *Solver) orderValues(values []int) []int {
	if s.config.ValueHeuristic == ValueOrderDesc {
		reversed := make([]int, len(values))
		for i, v := range values {
			reversed[len(values)-1-i] = v
		}
		return reversed
	}
	return values
}
