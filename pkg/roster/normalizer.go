package roster

// normalizer.go: converts a RosterInput (three parallel record streams)
// into a dense-indexed, immutable ProblemInfo.
//
// Grounded in original_source/src/data_input.py's get_problem_info: the
// unit attribute derivation (headcount=1, female iff gender=="F", exp iff
// exp_level>=exp_threshold), the force/reject derivation from the
// availability stream, and the task-set cross-check between the roster
// and demand streams all mirror that function's logic, generalized from
// xlsx cell reads to already-parsed Go structs.

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Normalizer turns a RosterInput into a ProblemInfo.
type Normalizer struct {
	expThreshold int
}

// NewNormalizer constructs a Normalizer. expThreshold is the minimum
// experience level (0..5) that marks a person "experienced"; 3 is the
// source's default.
func NewNormalizer(expThreshold int) *Normalizer {
	if expThreshold <= 0 {
		expThreshold = 3
	}
	return &Normalizer{expThreshold: expThreshold}
}

// Normalize validates and converts in. Day labels come either from
// in.Days directly, or (if in.Days is empty and a Recurrence is supplied
// separately via ExpandDays) must already be populated by the caller
// before Normalize is invoked.
func (n *Normalizer) Normalize(in RosterInput) (*ProblemInfo, error) {
	tasks, err := n.reconcileTasks(in)
	if err != nil {
		return nil, err
	}

	days := dedupeInOrder(in.Days)

	taskIndex := make(map[string]int, len(tasks))
	for k, t := range tasks {
		taskIndex[t] = k
	}
	dayIndex := make(map[string]int, len(days))
	for j, d := range days {
		dayIndex[d] = j
	}

	P, W, E := n.buildDemandMatrices(in.Demand, tasks, taskIndex, len(days))

	u := len(in.Roster)
	ids := make([][]string, u)
	names := make([]string, u)
	headcount := make([]int, u)
	female := make([]int, u)
	exp := make([]int, u)

	personIndex := make(map[string]int, u)

	var force, reject []Triple

	for i, row := range in.Roster {
		personIndex[row.Key] = i
		ids[i] = []string{row.Key}
		names[i] = row.Name
		headcount[i] = 1
		if row.Gender == "F" {
			female[i] = 1
		}
		if row.ExpLevel >= n.expThreshold {
			exp[i] = 1
		}

		for task, answer := range row.TaskAnswers {
			if answer != AnswerRefuse {
				continue
			}
			k, ok := taskIndex[task]
			if !ok {
				return nil, &InconsistentInputsError{
					Reason: fmt.Sprintf("roster row %q refuses unknown task %q", row.Key, task),
				}
			}
			for j := range days {
				reject = append(reject, Triple{Unit: i, Day: j, Task: k})
			}
		}
	}

	for _, cell := range in.Availability {
		i, ok := personIndex[cell.PersonKey]
		if !ok {
			return nil, &InconsistentInputsError{
				Reason: fmt.Sprintf("availability cell references unknown person key %q", cell.PersonKey),
			}
		}
		j, ok := dayIndex[cell.Day]
		if !ok {
			return nil, &InconsistentInputsError{
				Reason: fmt.Sprintf("availability cell references unknown day label %q", cell.Day),
			}
		}

		switch {
		case cell.Value == CellIndisp:
			for k := range tasks {
				reject = append(reject, Triple{Unit: i, Day: j, Task: k})
			}
		default:
			if k, ok := taskIndex[cell.Value]; ok {
				force = append(force, Triple{Unit: i, Day: j, Task: k})
			}
			// Any other cell value (including the undocumented
			// "not_allocated") is silently ignored, per the
			// source's observed behavior.
		}
	}

	force = dedupeTriples(force)
	reject = dedupeTriples(reject)

	return &ProblemInfo{
		U: u, D: len(days), T: len(tasks),
		Tasks: tasks, Days: days,
		IDs: ids, Names: names,
		P: P, W: W, E: E,
		Headcount: headcount, Female: female, Exp: exp,
		Force: force, Reject: reject,
	}, nil
}

// reconcileTasks verifies the roster stream's task set equals the
// demand stream's task set (as a set), per spec §4.1's validation rule,
// and returns the task list in the demand stream's order (the order the
// demand matrices are built against).
func (n *Normalizer) reconcileTasks(in RosterInput) ([]string, error) {
	demandTasks := make([]string, 0, len(in.Demand))
	demandSet := make(map[string]bool, len(in.Demand))
	for _, d := range in.Demand {
		demandTasks = append(demandTasks, d.Task)
		demandSet[d.Task] = true
	}

	rosterSet := make(map[string]bool)
	for _, row := range in.Roster {
		for task := range row.TaskAnswers {
			rosterSet[task] = true
		}
	}

	for task := range rosterSet {
		if !demandSet[task] {
			return nil, &InconsistentInputsError{
				Reason: fmt.Sprintf("roster references task %q absent from demand", task),
			}
		}
	}
	for task := range demandSet {
		if !rosterSet[task] {
			return nil, &InconsistentInputsError{
				Reason: fmt.Sprintf("demand references task %q absent from roster", task),
			}
		}
	}

	return demandTasks, nil
}

// buildDemandMatrices repeats each task's single demand triple across
// every day, mirroring data_input.py's np.repeat call: the source assumes
// demand is specified once and held constant across the whole horizon.
func (n *Normalizer) buildDemandMatrices(demand []DemandRow, tasks []string, taskIndex map[string]int, days int) (P, W, E [][]int) {
	row := make([]int, len(tasks))
	wrow := make([]int, len(tasks))
	erow := make([]int, len(tasks))
	for _, d := range demand {
		k := taskIndex[d.Task]
		row[k] = d.Headcount
		wrow[k] = d.Female
		erow[k] = d.Experience
	}

	P = make([][]int, days)
	W = make([][]int, days)
	E = make([][]int, days)
	for j := 0; j < days; j++ {
		P[j] = append([]int(nil), row...)
		W[j] = append([]int(nil), wrow...)
		E[j] = append([]int(nil), erow...)
	}
	return P, W, E
}

func dedupeInOrder(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func dedupeTriples(in []Triple) []Triple {
	seen := make(map[Triple]bool, len(in))
	out := make([]Triple, 0, len(in))
	for _, t := range in {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Recurrence describes a recurring day sequence, consumed by ExpandDays
// in place of an explicit day-label list. This restores the source's
// implicit "one_allocation_every_how_many_weeks" recurrence convention
// without changing ProblemInfo.Days's shape: it is still just a flat,
// ordered list of labels once expanded.
type Recurrence struct {
	RRule string // e.g. "FREQ=WEEKLY;INTERVAL=1"
	Start time.Time
	Count int
}

// ExpandDays turns a Recurrence into a day-label list (DD/MM/YYYY,
// matching the source's strftime format), suitable for RosterInput.Days.
func ExpandDays(r Recurrence) ([]string, error) {
	opt, err := rrule.StrToROption(r.RRule)
	if err != nil {
		return nil, fmt.Errorf("roster: invalid RRULE %q: %w", r.RRule, err)
	}
	opt.Dtstart = r.Start
	opt.Count = r.Count

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("roster: cannot build recurrence: %w", err)
	}

	occurrences := rule.All()
	days := make([]string, len(occurrences))
	for i, t := range occurrences {
		days[i] = t.Format("02/01/2006")
	}
	return days, nil
}
