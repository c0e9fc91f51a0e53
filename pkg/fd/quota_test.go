package fd

import "testing"

func TestWeightedSum_EqForcesRemainingVariableTrue(t *testing.T) {
	model := NewModel()
	vars := model.NewVariables(2, BoolDomain())

	// Fix the first unit to not-assigned, leaving only the second
	// variable able to satisfy an exact headcount of 1.
	fixFalse, _ := NewFixedAssignment(vars[0], false, "unit 0 unavailable")
	model.AddConstraint(fixFalse)

	sum, err := NewWeightedSum(vars, []int{1, 1}, 1, ModeEq, "headcount quota")
	if err != nil {
		t.Fatalf("NewWeightedSum: %v", err)
	}
	model.AddConstraint(sum)

	solver := NewSolver(model)
	state, err := solver.propagate(nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}

	d := solver.GetDomain(state, vars[1].ID())
	if !d.IsSingleton() || d.SingletonValue() != 2 {
		t.Fatalf("expected variable 1 forced true, got domain %s", d.String())
	}
}

func TestWeightedSum_AtLeastInfeasibleWhenUnreachable(t *testing.T) {
	model := NewModel()
	vars := model.NewVariables(1, BoolDomain())

	fixFalse, _ := NewFixedAssignment(vars[0], false, "no experienced unit available")
	model.AddConstraint(fixFalse)

	sum, err := NewWeightedSum(vars, []int{1}, 1, ModeAtLeast, "experience quota")
	if err != nil {
		t.Fatalf("NewWeightedSum: %v", err)
	}
	model.AddConstraint(sum)

	solver := NewSolver(model)
	if _, err := solver.propagate(nil); err == nil {
		t.Fatalf("expected infeasibility error when the only unit is forced false but quota requires at least 1")
	}
}

func TestWeightedSum_AtMostToleratesSlack(t *testing.T) {
	model := NewModel()
	vars := model.NewVariables(3, BoolDomain())

	sum, err := NewWeightedSum(vars, []int{1, 1, 1}, 1, ModeAtMost, "one task per day")
	if err != nil {
		t.Fatalf("NewWeightedSum: %v", err)
	}
	model.AddConstraint(sum)

	solver := NewSolver(model)
	if _, err := solver.propagate(nil); err != nil {
		t.Fatalf("propagate: %v", err)
	}
}

func TestNewWeightedSum_RejectsMismatchedLengths(t *testing.T) {
	model := NewModel()
	vars := model.NewVariables(2, BoolDomain())
	if _, err := NewWeightedSum(vars, []int{1}, 1, ModeEq, "bad"); err == nil {
		t.Fatalf("expected error for mismatched vars/weights lengths")
	}
}
