package roster

// grouper.go: fuses a subset of units into one composite unit, grounded
// directly in original_source/sapi.py's make_group. Index remapping,
// sum fusion, name concatenation, triple rewriting, and the
// reject-wins-over-force conflict rule all follow that function line for
// line, adapted from numpy arrays + Python lists to Go slices and from a
// single hard-coded call site to a reusable, testable method.

import "fmt"

// Grouper applies group operations to a ProblemInfo.
type Grouper struct{}

// NewGrouper constructs a Grouper. It carries no state; every operation
// is a pure function of its inputs.
func NewGrouper() *Grouper { return &Grouper{} }

// UnitKey identifies an existing unit by one of its constituent person
// keys (for singletons, its only key).
type UnitKey = string

// Apply runs a batch of group operations sequentially, folding applyOne
// over the input — mirroring sapi.py's main() loop over cfg['couples'].
func (g *Grouper) Apply(info *ProblemInfo, groups [][]UnitKey) (*ProblemInfo, error) {
	current := info
	for _, keys := range groups {
		next, err := g.applyOne(current, keys)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// applyOne fuses the units identified by keys into one composite unit
// appended at the end of the roster.
func (g *Grouper) applyOne(info *ProblemInfo, keys []UnitKey) (*ProblemInfo, error) {
	// Locate the dense index of each requested key, within any unit's
	// (possibly multi-key, for an already-composite unit) identifier.
	keyToIndex := make(map[string]int)
	for idx, ids := range info.IDs {
		for _, id := range ids {
			keyToIndex[id] = idx
		}
	}

	indexSet := make(map[int]bool, len(keys))
	for _, key := range keys {
		idx, ok := keyToIndex[key]
		if !ok {
			return nil, &UnknownUnitError{Key: key}
		}
		indexSet[idx] = true
	}

	oldU := info.U
	// remap[oldIndex] = newIndex among the surviving (non-fused) units,
	// in their relative order; fused indices are absent from remap.
	remap := make(map[int]int, oldU)
	nextIdx := 0
	for old := 0; old < oldU; old++ {
		if indexSet[old] {
			continue
		}
		remap[old] = nextIdx
		nextIdx++
	}
	compositeIndex := nextIdx // appended after all survivors

	var compositeIDs []string
	var compositeName string
	compositeHead, compositeFemale, compositeExp := 0, 0, 0
	first := true

	names := make([]string, 0, nextIdx)
	ids := make([][]string, 0, nextIdx)
	headcount := make([]int, 0, nextIdx)
	female := make([]int, 0, nextIdx)
	exp := make([]int, 0, nextIdx)

	for old := 0; old < oldU; old++ {
		if indexSet[old] {
			compositeIDs = append(compositeIDs, info.IDs[old]...)
			if !first {
				compositeName += ", "
			}
			first = false
			compositeName += info.Names[old]
			compositeHead += info.Headcount[old]
			compositeFemale += info.Female[old]
			compositeExp += info.Exp[old]
			continue
		}
		names = append(names, info.Names[old])
		ids = append(ids, append([]string(nil), info.IDs[old]...))
		headcount = append(headcount, info.Headcount[old])
		female = append(female, info.Female[old])
		exp = append(exp, info.Exp[old])
	}

	names = append(names, compositeName)
	ids = append(ids, compositeIDs)
	headcount = append(headcount, compositeHead)
	female = append(female, compositeFemale)
	exp = append(exp, compositeExp)

	remapUnit := func(old int) int {
		if indexSet[old] {
			return compositeIndex
		}
		return remap[old]
	}

	force := make([]Triple, len(info.Force))
	for i, t := range info.Force {
		force[i] = Triple{Unit: remapUnit(t.Unit), Day: t.Day, Task: t.Task}
	}
	reject := make([]Triple, len(info.Reject))
	for i, t := range info.Reject {
		reject[i] = Triple{Unit: remapUnit(t.Unit), Day: t.Day, Task: t.Task}
	}

	force = dedupeTriples(force)
	reject = dedupeTriples(reject)

	rejectSet := make(map[Triple]bool, len(reject))
	for _, t := range reject {
		rejectSet[t] = true
	}
	kept := force[:0]
	for _, t := range force {
		if !rejectSet[t] {
			kept = append(kept, t)
		}
	}
	force = kept

	out := &ProblemInfo{
		U: nextIdx + 1, D: info.D, T: info.T,
		Tasks: append([]string(nil), info.Tasks...),
		Days:  append([]string(nil), info.Days...),
		IDs:   ids, Names: names,
		P: cloneMatrix(info.P), W: cloneMatrix(info.W), E: cloneMatrix(info.E),
		Headcount: headcount, Female: female, Exp: exp,
		Force: force, Reject: reject,
	}

	if compositeHead == 0 {
		return nil, fmt.Errorf("roster: group operation %v produced an empty composite unit", keys)
	}

	return out, nil
}
