package roster

import (
	"errors"
	"testing"
)

func twoUnitInfo() *ProblemInfo {
	return &ProblemInfo{
		U: 2, D: 2, T: 1,
		Tasks: []string{"reception"},
		Days:  []string{"Mon", "Tue"},
		IDs:   [][]string{{"ana"}, {"bea"}},
		Names: []string{"Ana", "Bea"},
		P:     [][]int{{1}, {1}},
		W:     [][]int{{0}, {0}},
		E:     [][]int{{0}, {0}},
		Headcount: []int{1, 1},
		Female:    []int{1, 0},
		Exp:       []int{1, 0},
		Force:     []Triple{{Unit: 0, Day: 0, Task: 0}},
		Reject:    []Triple{{Unit: 1, Day: 1, Task: 0}},
	}
}

func TestGrouper_FusesIntoCompositeUnitAppendedLast(t *testing.T) {
	g := NewGrouper()
	out, err := g.Apply(twoUnitInfo(), [][]UnitKey{{"ana", "bea"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if out.U != 1 {
		t.Fatalf("expected fusing both units into 1, got U=%d", out.U)
	}
	if out.Headcount[0] != 2 {
		t.Fatalf("expected composite headcount 2, got %d", out.Headcount[0])
	}
	if out.Female[0] != 1 || out.Exp[0] != 1 {
		t.Fatalf("expected composite female=1 exp=1 (summed), got female=%d exp=%d", out.Female[0], out.Exp[0])
	}
	if out.Names[0] != "Ana, Bea" {
		t.Fatalf("expected concatenated name 'Ana, Bea', got %q", out.Names[0])
	}
}

func TestGrouper_RejectWinsOverForceOnConflict(t *testing.T) {
	info := twoUnitInfo()
	// Force and reject the same (unit, day, task) slot after fusion: both
	// triples reference unit 0 and unit 1 respectively, both remapped to
	// the same composite index.
	info.Force = []Triple{{Unit: 0, Day: 0, Task: 0}}
	info.Reject = []Triple{{Unit: 1, Day: 0, Task: 0}}

	g := NewGrouper()
	out, err := g.Apply(info, [][]UnitKey{{"ana", "bea"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := Triple{Unit: 0, Day: 0, Task: 0}
	foundReject := false
	for _, tr := range out.Reject {
		if tr == want {
			foundReject = true
		}
	}
	if !foundReject {
		t.Fatalf("expected the composite unit's slot to remain rejected, got reject=%v", out.Reject)
	}
	for _, tr := range out.Force {
		if tr == want {
			t.Fatalf("expected reject to win over force for slot %v, but force still contains it: %v", want, out.Force)
		}
	}
}

func TestGrouper_UnknownKeyReturnsUnknownUnitError(t *testing.T) {
	g := NewGrouper()
	_, err := g.Apply(twoUnitInfo(), [][]UnitKey{{"ana", "ghost"}})
	if err == nil {
		t.Fatalf("expected an error for an unknown unit key")
	}
	var target *UnknownUnitError
	if !errors.As(err, &target) {
		t.Fatalf("expected *UnknownUnitError, got %T: %v", err, err)
	}
}
