package roster

import "testing"

func reportInfo() *ProblemInfo {
	return &ProblemInfo{
		U: 2, D: 2, T: 1,
		Tasks: []string{"reception"},
		Days:  []string{"Mon", "Tue"},
		Names: []string{"Ana", "Bea"},
	}
}

func TestBuildReport_JoinsNamesAndCountsDaysWorked(t *testing.T) {
	info := reportInfo()
	sol := NewSolutionTensor(info.U, info.D, info.T)
	sol.Assign[0][0][0] = true // Ana works Mon
	sol.Assign[1][0][0] = true // Bea works Mon too
	sol.Assign[0][1][0] = true // Ana works Tue

	report := BuildReport(info, sol)

	if got := report.Grid[0][0].String(); got != "Ana, Bea" {
		t.Fatalf("expected Mon/reception cell 'Ana, Bea', got %q", got)
	}
	if got := report.Grid[0][1].String(); got != "Ana" {
		t.Fatalf("expected Tue/reception cell 'Ana', got %q", got)
	}

	if report.DaysWorked[0] != 2 {
		t.Fatalf("expected Ana to have worked 2 days, got %d", report.DaysWorked[0])
	}
	if report.DaysWorked[1] != 1 {
		t.Fatalf("expected Bea to have worked 1 day, got %d", report.DaysWorked[1])
	}
}

func TestBuildReport_EmptyCellRendersEmptyString(t *testing.T) {
	info := reportInfo()
	sol := NewSolutionTensor(info.U, info.D, info.T)

	report := BuildReport(info, sol)
	if got := report.Grid[0][0].String(); got != "" {
		t.Fatalf("expected an empty cell for an unassigned slot, got %q", got)
	}
}

func TestReport_Table_HasHeaderPlusOneRowPerTask(t *testing.T) {
	info := reportInfo()
	sol := NewSolutionTensor(info.U, info.D, info.T)
	report := BuildReport(info, sol)

	table := report.Table()
	if len(table) != len(info.Tasks)+1 {
		t.Fatalf("expected %d rows (header + tasks), got %d", len(info.Tasks)+1, len(table))
	}
	if table[0][0] != " " || table[0][1] != "Mon" {
		t.Fatalf("unexpected header row: %v", table[0])
	}
	if table[1][0] != "reception" {
		t.Fatalf("expected first data row to start with task name, got %v", table[1])
	}
}

func TestReport_ByUnit_PairsNameWithCount(t *testing.T) {
	info := reportInfo()
	sol := NewSolutionTensor(info.U, info.D, info.T)
	sol.Assign[1][1][0] = true

	report := BuildReport(info, sol)
	summaries := report.ByUnit(info)

	if len(summaries) != info.U {
		t.Fatalf("expected %d summaries, got %d", info.U, len(summaries))
	}
	if summaries[1].Name != "Bea" || summaries[1].DaysWorked != 1 {
		t.Fatalf("expected Bea to show 1 day worked, got %+v", summaries[1])
	}
}
