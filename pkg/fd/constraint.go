// Package fd provides constraint propagation for finite-domain constraint
// programming.
//
// The propagation system follows these principles:
//   - Constraints implement the ModelConstraint interface
//   - Propagation is triggered after domain changes during search
//   - The Solver runs constraints to a fixed point (no more changes)
//   - All operations maintain copy-on-write semantics for cheap backtracking
package fd

// PropagationConstraint extends ModelConstraint with active domain
// pruning. This interface bridges the declarative ModelConstraint with
// the propagation engine.
//
// Propagation maintains copy-on-write semantics: constraints never modify
// state in-place but return a new state with pruned domains. Propagate
// must be pure: same input produces same output, no side effects.
type PropagationConstraint interface {
	ModelConstraint

	// Propagate applies the constraint's filtering algorithm. Takes the
	// current solver and state, returns a new state with pruned domains.
	// Returns an error if inconsistency is detected (empty domain).
	Propagate(solver *Solver, state *SolverState) (*SolverState, error)
}
