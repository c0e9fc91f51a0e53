package roster

import (
	"context"
	"testing"
)

func TestSearchDriver_Solve_FeasibleReturnsOptimalWhenEnumerationCompletes(t *testing.T) {
	info := feasibleInfo()
	driver := NewSearchDriver(nil)
	cfg := DefaultBuildConfig()
	cfg.MaxSolutions = 0 // enumerate everything

	result := driver.Solve(context.Background(), info, cfg)
	if result.Status != StatusOptimal {
		t.Fatalf("expected StatusOptimal, got %s (count=%d)", result.Status, result.Count)
	}
	if result.Count == 0 {
		t.Fatalf("expected at least one solution")
	}
	if len(result.Solutions) != result.Count {
		t.Fatalf("expected %d solution tensors, got %d", result.Count, len(result.Solutions))
	}
}

func TestSearchDriver_Solve_FeasibleWhenCapIsHit(t *testing.T) {
	info := feasibleInfo()
	driver := NewSearchDriver(nil)
	cfg := DefaultBuildConfig()
	cfg.MaxSolutions = 1

	result := driver.Solve(context.Background(), info, cfg)
	if result.Status != StatusFeasible {
		t.Fatalf("expected StatusFeasible when the solution cap is hit, got %s", result.Status)
	}
	if result.Count != 1 {
		t.Fatalf("expected exactly 1 solution (the cap), got %d", result.Count)
	}
}

func TestSearchDriver_Solve_InfeasibleWhenForceAndRejectConflict(t *testing.T) {
	info := feasibleInfo()
	info.Force = []Triple{{Unit: 0, Day: 0, Task: 0}}
	info.Reject = []Triple{{Unit: 0, Day: 0, Task: 0}}

	driver := NewSearchDriver(nil)
	result := driver.Solve(context.Background(), info, DefaultBuildConfig())
	if result.Status != StatusInfeasible {
		t.Fatalf("expected StatusInfeasible for a unit both forced and rejected on the same slot, got %s", result.Status)
	}
	if len(result.Solutions) != 0 {
		t.Fatalf("expected no solutions, got %d", len(result.Solutions))
	}
}

func TestSearchDriver_Solve_ModelInvalidOnConsistencyFailure(t *testing.T) {
	info := feasibleInfo()
	info.W[0][0] = 2 // violates W <= P

	driver := NewSearchDriver(nil)
	result := driver.Solve(context.Background(), info, DefaultBuildConfig())
	if result.Status != StatusModelInvalid {
		t.Fatalf("expected StatusModelInvalid, got %s", result.Status)
	}
	if result.Err == nil {
		t.Fatalf("expected a non-nil Err for StatusModelInvalid")
	}
}

func TestSearchDriver_SolveWithLadder_FirstFeasibleRungWins(t *testing.T) {
	info := feasibleInfo()
	info.Force = []Triple{{Unit: 0, Day: 0, Task: 0}}
	info.Reject = []Triple{{Unit: 0, Day: 0, Task: 0}} // infeasible unless family 5 or 6 is relaxed

	driver := NewSearchDriver(nil)
	base := DefaultBuildConfig()
	base.MaxSolutions = 1

	rungs := []Rung{
		{Label: "strict", Relaxed: map[ConstraintID]bool{}},
		{Label: "relax-reject", Relaxed: map[ConstraintID]bool{ConstraintRejected: true}},
	}

	results, err := driver.SolveWithLadder(context.Background(), info, base, rungs)
	if err != nil {
		t.Fatalf("SolveWithLadder: %v", err)
	}

	foundFeasible := false
	for _, r := range results {
		if r.Result.Status == StatusOptimal || r.Result.Status == StatusFeasible {
			foundFeasible = true
		}
	}
	if !foundFeasible {
		t.Fatalf("expected at least one rung to find a solution once the reject constraint is relaxed")
	}
}
