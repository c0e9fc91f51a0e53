package roster

// report.go: turns a SolutionTensor back into the task-by-day name table
// a human roster reader expects, plus a per-unit day count. Grounded in
// original_source/sapi.py's sol_to_array: row per task, column per day,
// cell holds the comma-joined names of every unit assigned that
// (day, task) slot; days_worked tallies, per unit, the (day, task) slots
// it was assigned to, which equals its days worked whenever constraint
// family 4 (one task per day) is in force.

import "strings"

// Cell is one (task, day) slot's rendered content: the names of every
// unit assigned there, in unit order.
type Cell struct {
	Names []string
}

// String joins the cell's names the way sol_to_array does: comma+space
// separated, no trailing separator.
func (c Cell) String() string {
	return strings.Join(c.Names, ", ")
}

// Report is a rendered solution: a task×day grid of Cells, plus a
// per-unit day-worked tally parallel to ProblemInfo.Names.
type Report struct {
	Tasks      []string
	Days       []string
	Grid       [][]Cell // [task][day]
	DaysWorked []int    // length U, parallel to ProblemInfo.Names
}

// BuildReport renders one SolutionTensor against the ProblemInfo it was
// solved from.
func BuildReport(info *ProblemInfo, sol *SolutionTensor) *Report {
	grid := make([][]Cell, info.T)
	for k := range grid {
		grid[k] = make([]Cell, info.D)
	}

	daysWorked := make([]int, info.U)
	assignedAnyTask := make([]bool, info.U)

	for j := 0; j < info.D; j++ {
		for k := 0; k < info.T; k++ {
			for i := 0; i < info.U; i++ {
				assignedAnyTask[i] = false
			}
			for i := 0; i < info.U; i++ {
				if sol.Assign[i][j][k] {
					grid[k][j].Names = append(grid[k][j].Names, info.Names[i])
					if !assignedAnyTask[i] {
						assignedAnyTask[i] = true
						daysWorked[i]++
					}
				}
			}
		}
	}

	return &Report{
		Tasks:      append([]string(nil), info.Tasks...),
		Days:       append([]string(nil), info.Days...),
		Grid:       grid,
		DaysWorked: daysWorked,
	}
}

// UnitSummary is one unit's rollup across a solved horizon: its display
// name and total days worked. This is a SPEC_FULL.md addition beyond
// sol_to_array's flat days_worked list, pairing each count back with its
// unit's name so a caller doesn't need to zip it against ProblemInfo
// itself.
type UnitSummary struct {
	Name       string
	DaysWorked int
}

// ByUnit returns the report's per-unit rollup in ProblemInfo.Names order.
func (r *Report) ByUnit(info *ProblemInfo) []UnitSummary {
	out := make([]UnitSummary, info.U)
	for i := 0; i < info.U; i++ {
		out[i] = UnitSummary{Name: info.Names[i], DaysWorked: r.DaysWorked[i]}
	}
	return out
}

// Table renders the report as a header row (" ", day labels...) plus one
// row per task, matching sol_to_array's sol_array shape exactly — useful
// for a caller writing straight to a spreadsheet or CSV writer.
func (r *Report) Table() [][]string {
	rows := make([][]string, 0, len(r.Tasks)+1)

	header := make([]string, 0, len(r.Days)+1)
	header = append(header, " ")
	header = append(header, r.Days...)
	rows = append(rows, header)

	for k, task := range r.Tasks {
		row := make([]string, 0, len(r.Days)+1)
		row = append(row, task)
		for j := range r.Days {
			row = append(row, r.Grid[k][j].String())
		}
		rows = append(rows, row)
	}

	return rows
}
