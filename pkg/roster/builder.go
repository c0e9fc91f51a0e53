package roster

// builder.go: ModelBuilder turns a ProblemInfo plus a BuildConfig into a
// fd.Model. The seven labeled constraint families and the W<=P / E<=P
// consistency pre-check are grounded in spec.md §4.3; the constraint
// shapes are realized with fd.WeightedSum (families 1,2,3,4,7) and
// fd.FixedAssignment (families 5,6), per pkg/fd's adaptation of the
// teacher's LinearSum bounds-consistency technique.

import (
	"fmt"

	"github.com/sapischedule/roster/pkg/fd"
)

// ConstraintID names one of the seven labeled constraint families so a
// caller's relaxation set can omit it by number, per spec.md §4.3.
type ConstraintID int

const (
	ConstraintHeadcount ConstraintID = 1
	ConstraintExperience ConstraintID = 2
	ConstraintFemale     ConstraintID = 3
	ConstraintOnePerDay  ConstraintID = 4
	ConstraintForced     ConstraintID = 5
	ConstraintRejected   ConstraintID = 6
	ConstraintSpacing    ConstraintID = 7
)

// BuildConfig parameterizes the ModelBuilder and SearchDriver. It
// replaces the source's untyped configuration dict (spec.md §9's
// re-architecture note): a strongly typed struct validated before it
// ever reaches the builder.
type BuildConfig struct {
	MaxSolutions   int          `yaml:"max_solutions" validate:"gte=1"`
	MaxTimeSeconds int          `yaml:"max_time_seconds" validate:"gte=1"`
	MinGapDays     int          `yaml:"min_gap_days" validate:"gte=1"`
	Relaxed        map[ConstraintID]bool `yaml:"-"`
}

// DefaultBuildConfig mirrors the source's documented defaults
// (max_time_seconds=100; min_gap_days defaults to 4 per the glossary).
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MaxSolutions:   100,
		MaxTimeSeconds: 100,
		MinGapDays:     4,
		Relaxed:        map[ConstraintID]bool{},
	}
}

// ModelBuilder constructs an fd.Model from a ProblemInfo and BuildConfig.
type ModelBuilder struct{}

// NewModelBuilder constructs a ModelBuilder. It carries no state.
func NewModelBuilder() *ModelBuilder { return &ModelBuilder{} }

// BuiltModel is the ModelBuilder's output: the fd.Model plus the decision
// variable table, indexed [unit][day][task], that the SearchDriver needs
// to read solver solutions back into U×D×T tensors.
type BuiltModel struct {
	Model *fd.Model
	Vars  [][][]*fd.FDVariable // [U][D][T]
}

// Build validates info against cfg (the consistency pre-check), then
// constructs the decision variables and the constraint families not
// named in cfg.Relaxed.
func (b *ModelBuilder) Build(info *ProblemInfo, cfg BuildConfig) (*BuiltModel, error) {
	if err := checkShape(info); err != nil {
		return nil, err
	}
	if err := checkConsistency(info); err != nil {
		return nil, err
	}

	model := fd.NewModel()

	vars := make([][][]*fd.FDVariable, info.U)
	for i := 0; i < info.U; i++ {
		vars[i] = make([][]*fd.FDVariable, info.D)
		for j := 0; j < info.D; j++ {
			vars[i][j] = make([]*fd.FDVariable, info.T)
			for k := 0; k < info.T; k++ {
				vars[i][j][k] = model.NewVariable(fd.BoolDomain())
			}
		}
	}

	relaxed := cfg.Relaxed

	if !relaxed[ConstraintHeadcount] {
		if err := addQuota(model, info, vars, fd.ModeEq, info.Headcount, info.P, "headcount"); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintExperience] {
		if err := addQuota(model, info, vars, fd.ModeAtLeast, info.Exp, info.E, "experience"); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintFemale] {
		if err := addQuota(model, info, vars, fd.ModeAtLeast, info.Female, info.W, "female"); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintOnePerDay] {
		if err := addOnePerDay(model, info, vars); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintForced] {
		if err := addFixedSet(model, vars, info.Force, true); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintRejected] {
		if err := addFixedSet(model, vars, info.Reject, false); err != nil {
			return nil, err
		}
	}
	if !relaxed[ConstraintSpacing] {
		if err := addSpacing(model, info, vars, cfg.MinGapDays); err != nil {
			return nil, err
		}
	}

	return &BuiltModel{Model: model, Vars: vars}, nil
}

// checkShape validates every matrix/vector in info against the problem's
// (U, D, T) dimensions before Build indexes into any of them, per
// spec.md §9's "build() validates all dimensions atomically" note. A
// ProblemInfo assembled outside the Normalizer (e.g. built directly by a
// test or a future adapter) can otherwise trigger an index-out-of-range
// panic instead of a reportable ShapeError.
func checkShape(info *ProblemInfo) error {
	if len(info.Tasks) != info.T {
		return &ShapeError{Field: "Tasks", Expected: fmt.Sprintf("len %d", info.T), Got: fmt.Sprintf("len %d", len(info.Tasks))}
	}
	if len(info.Days) != info.D {
		return &ShapeError{Field: "Days", Expected: fmt.Sprintf("len %d", info.D), Got: fmt.Sprintf("len %d", len(info.Days))}
	}
	if len(info.Names) != info.U {
		return &ShapeError{Field: "Names", Expected: fmt.Sprintf("len %d", info.U), Got: fmt.Sprintf("len %d", len(info.Names))}
	}

	for _, v := range []struct {
		field string
		vals  []int
	}{
		{"Headcount", info.Headcount},
		{"Female", info.Female},
		{"Exp", info.Exp},
	} {
		if len(v.vals) != info.U {
			return &ShapeError{Field: v.field, Expected: fmt.Sprintf("len %d (U)", info.U), Got: fmt.Sprintf("len %d", len(v.vals))}
		}
	}

	for _, m := range []struct {
		field string
		rows  [][]int
	}{
		{"P", info.P},
		{"W", info.W},
		{"E", info.E},
	} {
		if len(m.rows) != info.D {
			return &ShapeError{Field: m.field, Expected: fmt.Sprintf("%d rows (D)", info.D), Got: fmt.Sprintf("%d rows", len(m.rows))}
		}
		for j, row := range m.rows {
			if len(row) != info.T {
				return &ShapeError{
					Field:    fmt.Sprintf("%s[%d]", m.field, j),
					Expected: fmt.Sprintf("len %d (T)", info.T),
					Got:      fmt.Sprintf("len %d", len(row)),
				}
			}
		}
	}

	for _, t := range [][]Triple{info.Force, info.Reject} {
		for _, tr := range t {
			if tr.Unit < 0 || tr.Unit >= info.U || tr.Day < 0 || tr.Day >= info.D || tr.Task < 0 || tr.Task >= info.T {
				return &ShapeError{
					Field:    "Force/Reject",
					Expected: fmt.Sprintf("unit<%d, day<%d, task<%d", info.U, info.D, info.T),
					Got:      fmt.Sprintf("unit=%d, day=%d, task=%d", tr.Unit, tr.Day, tr.Task),
				}
			}
		}
	}

	return nil
}

// checkConsistency verifies W<=P and E<=P element-wise, per spec.md
// §4.3's ModelBuilder pre-check.
func checkConsistency(info *ProblemInfo) error {
	var violations []QuotaViolation
	for j := 0; j < info.D; j++ {
		for k := 0; k < info.T; k++ {
			if info.W[j][k] > info.P[j][k] {
				violations = append(violations, QuotaViolation{
					Day: j, Task: k,
					Reason: fmt.Sprintf("female quota %d exceeds headcount quota %d", info.W[j][k], info.P[j][k]),
				})
			}
			if info.E[j][k] > info.P[j][k] {
				violations = append(violations, QuotaViolation{
					Day: j, Task: k,
					Reason: fmt.Sprintf("experience quota %d exceeds headcount quota %d", info.E[j][k], info.P[j][k]),
				})
			}
		}
	}
	if len(violations) > 0 {
		return &ConsistencyError{Violations: violations}
	}
	return nil
}

// addQuota adds one WeightedSum per (day, task), weighting each unit's
// variable by its per-unit attribute (headcount/female/exp), comparing
// against the matching demand matrix cell.
func addQuota(model *fd.Model, info *ProblemInfo, vars [][][]*fd.FDVariable, mode fd.CompareMode, attr []int, demand [][]int, label string) error {
	for j := 0; j < info.D; j++ {
		for k := 0; k < info.T; k++ {
			col := make([]*fd.FDVariable, info.U)
			weights := make([]int, info.U)
			for i := 0; i < info.U; i++ {
				col[i] = vars[i][j][k]
				weights[i] = attr[i]
			}
			c, err := fd.NewWeightedSum(col, weights, demand[j][k], mode,
				fmt.Sprintf("%s quota day %d task %d", label, j, k))
			if err != nil {
				return err
			}
			model.AddConstraint(c)
		}
	}
	return nil
}

// addOnePerDay adds, for each (unit, day), a WeightedSum capping the
// number of tasks that unit may take that day at 1 (constraint family 4).
func addOnePerDay(model *fd.Model, info *ProblemInfo, vars [][][]*fd.FDVariable) error {
	for i := 0; i < info.U; i++ {
		for j := 0; j < info.D; j++ {
			row := make([]*fd.FDVariable, info.T)
			weights := make([]int, info.T)
			for k := 0; k < info.T; k++ {
				row[k] = vars[i][j][k]
				weights[k] = 1
			}
			c, err := fd.NewWeightedSum(row, weights, 1, fd.ModeAtMost,
				fmt.Sprintf("one task per day unit %d day %d", i, j))
			if err != nil {
				return err
			}
			model.AddConstraint(c)
		}
	}
	return nil
}

// addFixedSet adds one fd.FixedAssignment per triple, pinning it to
// value (true for force, false for reject).
func addFixedSet(model *fd.Model, vars [][][]*fd.FDVariable, triples []Triple, value bool) error {
	for _, t := range triples {
		c, err := fd.NewFixedAssignment(vars[t.Unit][t.Day][t.Task], value,
			fmt.Sprintf("unit %d day %d task %d", t.Unit, t.Day, t.Task))
		if err != nil {
			return err
		}
		model.AddConstraint(c)
	}
	return nil
}

// addSpacing adds, for each unit and each sliding window of gap
// consecutive days, a WeightedSum capping total assignments in the
// window at 1 (constraint family 7).
func addSpacing(model *fd.Model, info *ProblemInfo, vars [][][]*fd.FDVariable, gap int) error {
	if gap <= 0 {
		return fmt.Errorf("roster: min_gap_days must be positive, got %d", gap)
	}
	if gap > info.D {
		return nil // no window fits; constraint is vacuous
	}
	for i := 0; i < info.U; i++ {
		for j0 := 0; j0 <= info.D-gap; j0++ {
			var window []*fd.FDVariable
			var weights []int
			for j := j0; j < j0+gap; j++ {
				for k := 0; k < info.T; k++ {
					window = append(window, vars[i][j][k])
					weights = append(weights, 1)
				}
			}
			c, err := fd.NewWeightedSum(window, weights, 1, fd.ModeAtMost,
				fmt.Sprintf("spacing unit %d window %d..%d", i, j0, j0+gap-1))
			if err != nil {
				return err
			}
			model.AddConstraint(c)
		}
	}
	return nil
}
