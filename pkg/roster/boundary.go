package roster

// boundary.go: the package's external interface, per spec.md §6. The
// core accepts only ProblemInput and yields only SolutionBundle; an
// external adapter (xlsx reader, workbook writer, interactive front-end)
// owns translating to and from those shapes. Pipeline wires Normalizer,
// Grouper, ModelBuilder, and SearchDriver together in the same order
// original_source/sapi.py's main() does: get_problem_info, then fold
// make_group over the configured couples, then build and solve.

import (
	"context"

	"go.uber.org/zap"
)

// PersonInput is one roster row as the external adapter hands it in.
type PersonInput struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Gender      string            `json:"gender"`
	ExpLevel    int               `json:"exp_level"`
	TaskAnswers map[string]Answer `json:"task_answers"`
}

// DemandInput is one task's (headcount, female, experience) quota triple.
type DemandInput struct {
	Headcount  int `json:"headcount"`
	Female     int `json:"female"`
	Experience int `json:"experience"`
}

// AvailabilityInput is one (person, day, value) cell from the
// availability stream.
type AvailabilityInput struct {
	Key   string `json:"key"`
	Day   string `json:"day"`
	Value string `json:"value"`
}

// ProblemInput is the core's sole input boundary, per spec.md §6: a
// normalized bundle an external adapter builds from whatever source
// format it reads (spreadsheet, JSON, database row set). cmd/roster's
// solve subcommand reads this shape directly from a JSON file, the
// Go-native stand-in for the source's xlsx trio.
type ProblemInput struct {
	Tasks   []string               `json:"tasks"`
	Days    []string               `json:"days"`
	Persons []PersonInput          `json:"persons"`
	Demand  map[string]DemandInput `json:"demand"`

	Availability []AvailabilityInput `json:"availability"`
	Groups       [][]UnitKey         `json:"groups"`

	ExpThreshold   int                  `json:"exp_threshold"`
	MaxSolutions   int                  `json:"max_sols"`
	MaxTimeSeconds int                  `json:"max_time_seconds"`
	MinGapDays     int                  `json:"min_gap_days"`
	Relaxed        map[ConstraintID]bool `json:"relaxed"`
}

// SolutionBundle is the core's sole output boundary, per spec.md §6.
type SolutionBundle struct {
	Tasks     []string          `json:"tasks"`
	Days      []string          `json:"days"`
	UnitNames []string          `json:"unit_names"`
	Solutions []*SolutionTensor `json:"solutions"`
	Status    Status            `json:"status"`
}

// Solve runs the full pipeline: normalize, apply every group operation,
// build the model, and search — mirroring sapi.py's main() in the same
// order (get_problem_info, fold make_group over cfg['couples'], build
// the Instance, solve).
func Solve(in ProblemInput, log *zap.Logger) (*SolutionBundle, error) {
	rows := make([]RosterRow, len(in.Persons))
	for i, p := range in.Persons {
		rows[i] = RosterRow{
			Key: p.Key, Name: p.Name, Gender: p.Gender,
			ExpLevel: p.ExpLevel, TaskAnswers: p.TaskAnswers,
		}
	}

	// Walk in.Tasks rather than ranging in.Demand directly: map iteration
	// order is randomized, and reconcileTasks derives the final task
	// ordering from this slice's order, so a map walk here would make
	// task indices (and so every SolutionTensor column) vary run to run
	// for the same input.
	demand := make([]DemandRow, 0, len(in.Tasks))
	for _, task := range in.Tasks {
		if d, ok := in.Demand[task]; ok {
			demand = append(demand, DemandRow{
				Task: task, Headcount: d.Headcount, Female: d.Female, Experience: d.Experience,
			})
		}
	}

	availability := make([]AvailabilityCell, len(in.Availability))
	for i, a := range in.Availability {
		availability[i] = AvailabilityCell{PersonKey: a.Key, Day: a.Day, Value: a.Value}
	}

	normalizer := NewNormalizer(in.ExpThreshold)
	info, err := normalizer.Normalize(RosterInput{
		Days: in.Days, Roster: rows, Demand: demand, Availability: availability,
	})
	if err != nil {
		return nil, err
	}

	if len(in.Groups) > 0 {
		info, err = NewGrouper().Apply(info, in.Groups)
		if err != nil {
			return nil, err
		}
	}

	cfg := BuildConfig{
		MaxSolutions:   in.MaxSolutions,
		MaxTimeSeconds: in.MaxTimeSeconds,
		MinGapDays:     in.MinGapDays,
		Relaxed:        in.Relaxed,
	}
	if cfg.MaxSolutions <= 0 || cfg.MaxTimeSeconds <= 0 || cfg.MinGapDays <= 0 {
		defaults := DefaultBuildConfig()
		if cfg.MaxSolutions <= 0 {
			cfg.MaxSolutions = defaults.MaxSolutions
		}
		if cfg.MaxTimeSeconds <= 0 {
			cfg.MaxTimeSeconds = defaults.MaxTimeSeconds
		}
		if cfg.MinGapDays <= 0 {
			cfg.MinGapDays = defaults.MinGapDays
		}
	}

	driver := NewSearchDriver(log)
	result := driver.Solve(context.Background(), info, cfg)
	if result.Status == StatusModelInvalid {
		return nil, result.Err
	}

	return &SolutionBundle{
		Tasks:     info.Tasks,
		Days:      info.Days,
		UnitNames: info.Names,
		Solutions: result.Solutions,
		Status:    result.Status,
	}, nil
}
