package roster

import (
	"errors"
	"testing"

	"github.com/sapischedule/roster/pkg/fd"
)

func feasibleInfo() *ProblemInfo {
	return &ProblemInfo{
		U: 3, D: 1, T: 1,
		Tasks: []string{"reception"},
		Days:  []string{"Mon"},
		IDs:   [][]string{{"ana"}, {"bea"}, {"caio"}},
		Names: []string{"Ana", "Bea", "Caio"},
		P:     [][]int{{1}},
		W:     [][]int{{1}},
		E:     [][]int{{0}},
		Headcount: []int{1, 1, 1},
		Female:    []int{1, 0, 0},
		Exp:       []int{0, 0, 1},
	}
}

func TestModelBuilder_BuildsAFeasibleModel(t *testing.T) {
	info := feasibleInfo()
	built, err := NewModelBuilder().Build(info, DefaultBuildConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if built.Model.VariableCount() != info.U*info.D*info.T {
		t.Fatalf("expected %d variables, got %d", info.U*info.D*info.T, built.Model.VariableCount())
	}
	if err := built.Model.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestModelBuilder_ShapeCheckCatchesExtraDemandRow(t *testing.T) {
	info := feasibleInfo()
	info.P = [][]int{{1}, {1}} // D=1, but now 2 rows
	_, err := NewModelBuilder().Build(info, DefaultBuildConfig())
	if err == nil {
		t.Fatalf("expected a shape error when P has more rows than D")
	}
	var target *ShapeError
	if !errors.As(err, &target) {
		t.Fatalf("expected *ShapeError, got %T: %v", err, err)
	}
}

func TestModelBuilder_ShapeCheckCatchesOutOfRangeForceTriple(t *testing.T) {
	info := feasibleInfo()
	info.Force = []Triple{{Unit: info.U, Day: 0, Task: 0}} // Unit is out of range
	_, err := NewModelBuilder().Build(info, DefaultBuildConfig())
	if err == nil {
		t.Fatalf("expected a shape error for an out-of-range Force triple")
	}
	var target *ShapeError
	if !errors.As(err, &target) {
		t.Fatalf("expected *ShapeError, got %T: %v", err, err)
	}
}

func TestModelBuilder_ConsistencyPreCheckCatchesFemaleExceedingHeadcount(t *testing.T) {
	info := feasibleInfo()
	info.W[0][0] = 2 // demands 2 female but only 1 headcount slot
	_, err := NewModelBuilder().Build(info, DefaultBuildConfig())
	if err == nil {
		t.Fatalf("expected a consistency error when female quota exceeds headcount quota")
	}
	var target *ConsistencyError
	if !errors.As(err, &target) {
		t.Fatalf("expected *ConsistencyError, got %T: %v", err, err)
	}
	if len(target.Violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d: %v", len(target.Violations), target.Violations)
	}
}

func TestModelBuilder_RelaxedConstraintIsOmitted(t *testing.T) {
	info := feasibleInfo()
	cfg := DefaultBuildConfig()
	cfg.Relaxed[ConstraintFemale] = true

	built, err := NewModelBuilder().Build(info, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, c := range built.Model.Constraints() {
		if c.Type() == "WeightedSum" && c.String() == "WeightedSum(female quota day 0 task 0: 3 terms ≥ 1)" {
			t.Fatalf("expected the female quota constraint to be omitted when relaxed")
		}
	}
}

func TestAddSpacing_VacuousWhenGapExceedsHorizon(t *testing.T) {
	info := feasibleInfo()
	model := fd.NewModel()

	vars := make([][][]*fd.FDVariable, info.U)
	for i := range vars {
		vars[i] = make([][]*fd.FDVariable, info.D)
		for j := range vars[i] {
			vars[i][j] = make([]*fd.FDVariable, info.T)
			for k := range vars[i][j] {
				vars[i][j][k] = model.NewVariable(fd.BoolDomain())
			}
		}
	}

	before := model.ConstraintCount()
	if err := addSpacing(model, info, vars, info.D+1); err != nil {
		t.Fatalf("addSpacing: %v", err)
	}
	if model.ConstraintCount() != before {
		t.Fatalf("expected no constraints added when the gap exceeds the horizon, count changed from %d to %d", before, model.ConstraintCount())
	}
}
