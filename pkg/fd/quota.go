package fd

// quota.go: a weighted-sum constraint over boolean-encoded decision
// variables, comparing the sum to a fixed integer target.
//
// This is the propagator behind roster constraint families 1 (headcount,
// `=`), 2 (experience, `≥`), 3 (female, `≥`), 4 (one task per day, `≤`)
// and 7 (spacing, `≤`): every one of them is "a weighted sum of
// assignment booleans compares to a fixed number". The bounds-consistency
// technique (tracking the admissible contribution interval for each
// variable against sumMin/sumMax of the others) is the same one the
// teacher's LinearSum propagator used for "sum equals a variable total";
// here it is adapted to a simpler shape: the target is a constant, not a
// variable, and each variable's domain is boolean ({1,2}, where 1 means
// false and 2 means true, per BitSetDomain's 1-indexed convention), so
// each variable contributes either 0 or its weight rather than an
// arbitrary coefficient times an arbitrary value.

import "fmt"

// CompareMode selects how a WeightedSum compares its sum to its target.
type CompareMode int

const (
	// ModeEq requires the sum to equal the target exactly.
	ModeEq CompareMode = iota
	// ModeAtLeast requires the sum to be >= the target.
	ModeAtLeast
	// ModeAtMost requires the sum to be <= the target.
	ModeAtMost
)

func (m CompareMode) String() string {
	switch m {
	case ModeEq:
		return "="
	case ModeAtLeast:
		return "≥"
	case ModeAtMost:
		return "≤"
	default:
		return "?"
	}
}

// WeightedSum enforces Σ weight[i]·[x[i]=true] <cmp> target over a set of
// boolean assignment variables.
type WeightedSum struct {
	vars    []*FDVariable
	weights []int
	target  int
	mode    CompareMode
	label   string // human-readable label, e.g. "headcount quota day 2 task 1"
}

// NewWeightedSum constructs a weighted boolean-sum constraint. len(vars)
// must equal len(weights); weights must be non-negative (unit headcount/
// female/experience counts never are).
func NewWeightedSum(vars []*FDVariable, weights []int, target int, mode CompareMode, label string) (*WeightedSum, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("WeightedSum %s: vars cannot be empty", label)
	}
	if len(vars) != len(weights) {
		return nil, fmt.Errorf("WeightedSum %s: len(vars) != len(weights)", label)
	}
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("WeightedSum %s: weight[%d] is negative", label, i)
		}
	}

	vcopy := make([]*FDVariable, len(vars))
	copy(vcopy, vars)
	wcopy := make([]int, len(weights))
	copy(wcopy, weights)

	return &WeightedSum{vars: vcopy, weights: wcopy, target: target, mode: mode, label: label}, nil
}

// Variables implements ModelConstraint.
func (w *WeightedSum) Variables() []*FDVariable {
	out := make([]*FDVariable, len(w.vars))
	copy(out, w.vars)
	return out
}

// Type implements ModelConstraint.
func (w *WeightedSum) Type() string { return "WeightedSum" }

// String implements ModelConstraint.
func (w *WeightedSum) String() string {
	return fmt.Sprintf("WeightedSum(%s: %d terms %s %d)", w.label, len(w.vars), w.mode, w.target)
}

// Propagate applies bounds-consistent pruning: each boolean variable
// contributes either 0 (false) or its weight (true); the admissible
// contribution interval for each variable is derived from the target and
// the min/max contributions of every other variable, then each domain is
// pruned to the values consistent with that interval.
func (w *WeightedSum) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	if solver == nil {
		return nil, fmt.Errorf("WeightedSum %s: nil solver", w.label)
	}

	n := len(w.vars)
	doms := make([]Domain, n)
	canFalse := make([]bool, n)
	canTrue := make([]bool, n)
	minContrib := make([]int, n)
	maxContrib := make([]int, n)

	sumMin, sumMax := 0, 0
	for i := 0; i < n; i++ {
		d := solver.GetDomain(state, w.vars[i].ID())
		if d == nil || d.Count() == 0 {
			return nil, fmt.Errorf("WeightedSum %s: variable %d has empty domain", w.label, w.vars[i].ID())
		}
		doms[i] = d
		canFalse[i] = d.Has(1)
		canTrue[i] = d.Has(2)

		switch {
		case canFalse[i] && canTrue[i]:
			minContrib[i] = 0
			maxContrib[i] = w.weights[i]
		case canFalse[i]:
			minContrib[i] = 0
			maxContrib[i] = 0
		default: // canTrue[i] only
			minContrib[i] = w.weights[i]
			maxContrib[i] = w.weights[i]
		}

		sumMin += minContrib[i]
		sumMax += maxContrib[i]
	}

	switch w.mode {
	case ModeEq:
		if w.target < sumMin || w.target > sumMax {
			return nil, fmt.Errorf("WeightedSum %s: target %d outside achievable range [%d,%d]", w.label, w.target, sumMin, sumMax)
		}
	case ModeAtLeast:
		if w.target > sumMax {
			return nil, fmt.Errorf("WeightedSum %s: target %d exceeds achievable max %d", w.label, w.target, sumMax)
		}
	case ModeAtMost:
		if w.target < sumMin {
			return nil, fmt.Errorf("WeightedSum %s: target %d below achievable min %d", w.label, w.target, sumMin)
		}
	}

	const unbounded = 1 << 30

	for i := 0; i < n; i++ {
		if !(canFalse[i] && canTrue[i]) {
			continue // already bound with respect to this constraint
		}

		otherMin := sumMin - minContrib[i]
		otherMax := sumMax - maxContrib[i]

		contribMin, contribMax := -unbounded, unbounded
		switch w.mode {
		case ModeEq:
			contribMin = w.target - otherMax
			contribMax = w.target - otherMin
		case ModeAtLeast:
			contribMin = w.target - otherMax
		case ModeAtMost:
			contribMax = w.target - otherMin
		}

		stillFalse := 0 >= contribMin && 0 <= contribMax
		stillTrue := w.weights[i] >= contribMin && w.weights[i] <= contribMax

		if !stillFalse && !stillTrue {
			return nil, fmt.Errorf("WeightedSum %s: variable %d has no admissible value", w.label, w.vars[i].ID())
		}

		var newDomain Domain
		switch {
		case !stillFalse:
			newDomain = doms[i].Remove(1)
		case !stillTrue:
			newDomain = doms[i].Remove(2)
		default:
			continue
		}

		if newDomain.Count() == 0 {
			return nil, fmt.Errorf("WeightedSum %s: variable %d domain became empty", w.label, w.vars[i].ID())
		}

		var changed bool
		state, changed = solver.SetDomain(state, w.vars[i].ID(), newDomain)
		if changed {
			doms[i] = newDomain
		}
	}

	return state, nil
}
