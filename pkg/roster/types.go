// Package roster normalizes volunteer-roster inputs into a finite-domain
// model, builds and solves that model, and reports the resulting
// assignments. It sits on top of pkg/fd the way the source's sapi.py and
// src/data_input.py sat on top of OR-Tools CP-SAT: the dense-indexed
// ProblemInfo bundle is the same shape, constructed by the same two-stage
// pipeline (normalize, then optionally group).
package roster

import "fmt"

// Answer is a person's stated willingness to perform a task, read from the
// roster stream but (per the source) only the Refuse case is ever acted
// on by the core; Accept and AcceptWithPreference are carried through
// unused so a future extension can weight them.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerRefuse
	AnswerAccept
	AnswerAcceptWithPreference
)

func (a Answer) String() string {
	switch a {
	case AnswerRefuse:
		return "Refuse"
	case AnswerAccept:
		return "Accept"
	case AnswerAcceptWithPreference:
		return "Accept-with-preference"
	default:
		return "Unknown"
	}
}

// CellIndisp is the availability-cell sentinel meaning "unavailable this
// day" (the source's "indisp"). Any other unrecognized cell value is
// silently ignored by the Normalizer, per spec §4.1/§9.
const CellIndisp = "indisp"

// RosterRow is one person record from the roster stream: a stable key, a
// display name, a gender, an experience level, and their per-task
// willingness.
type RosterRow struct {
	Key         string
	Name        string
	Gender      string // "F" or "M"
	ExpLevel    int    // 0..5
	TaskAnswers map[string]Answer
}

// DemandRow is one task's quota triple from the demand stream.
type DemandRow struct {
	Task       string
	Headcount  int
	Female     int
	Experience int
}

// AvailabilityCell is one (person, day, value) triple from the
// availability stream; value is a task name, CellIndisp, or anything else
// (ignored).
type AvailabilityCell struct {
	PersonKey string
	Day       string
	Value     string
}

// RosterInput bundles the three logical record streams the Normalizer
// consumes, plus an experience threshold field that Normalize does not
// read (it uses the threshold passed to NewNormalizer). This is the Go-native
// stand-in for the source's three xlsx sheets (get_problem_info's
// ficha_servo/demanda/sol_sheet arguments); an xlsx adapter is expected to
// parse into this shape rather than the core reading spreadsheets itself.
type RosterInput struct {
	Days         []string
	Roster       []RosterRow
	Demand       []DemandRow
	Availability []AvailabilityCell
	ExpThreshold int // not read by Normalize; see NewNormalizer
}

// Triple identifies one (unit, day, task) assignment slot, used by both
// the force and reject sets.
type Triple struct {
	Unit int
	Day  int
	Task int
}

// ProblemInfo is the dense-indexed, immutable problem bundle produced by
// the Normalizer and possibly rewritten by the Grouper. All slices sharing
// the U, D, or T dimension are parallel and index-stable for the lifetime
// of one ProblemInfo.
type ProblemInfo struct {
	U, D, T int

	Tasks []string // length T
	Days  []string // length D

	// IDs holds each unit's constituent person keys: length 1 for a
	// singleton, >1 for a fused group (per the Grouper).
	IDs   [][]string // length U
	Names []string   // length U

	// P, W, E are D×T demand matrices: total headcount, minimum female
	// headcount, minimum experienced-adult headcount.
	P [][]int
	W [][]int
	E [][]int

	Headcount []int // length U
	Female    []int // length U
	Exp       []int // length U

	Force  []Triple
	Reject []Triple
}

// Clone deep-copies a ProblemInfo. The Grouper never mutates its input;
// every transformation yields a new ProblemInfo so the original remains
// valid for a caller holding a reference to it.
func (p *ProblemInfo) Clone() *ProblemInfo {
	out := &ProblemInfo{U: p.U, D: p.D, T: p.T}

	out.Tasks = append([]string(nil), p.Tasks...)
	out.Days = append([]string(nil), p.Days...)
	out.Names = append([]string(nil), p.Names...)
	out.Headcount = append([]int(nil), p.Headcount...)
	out.Female = append([]int(nil), p.Female...)
	out.Exp = append([]int(nil), p.Exp...)
	out.Force = append([]Triple(nil), p.Force...)
	out.Reject = append([]Triple(nil), p.Reject...)

	out.IDs = make([][]string, len(p.IDs))
	for i, ids := range p.IDs {
		out.IDs[i] = append([]string(nil), ids...)
	}

	out.P = cloneMatrix(p.P)
	out.W = cloneMatrix(p.W)
	out.E = cloneMatrix(p.E)

	return out
}

func cloneMatrix(m [][]int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// String renders a one-line summary, useful for log lines around model
// build and solve.
func (p *ProblemInfo) String() string {
	return fmt.Sprintf("ProblemInfo(U=%d D=%d T=%d force=%d reject=%d)",
		p.U, p.D, p.T, len(p.Force), len(p.Reject))
}

// SolutionTensor is one feasible assignment: Assign[i][j][k] is true iff
// unit i is assigned to task k on day j.
type SolutionTensor struct {
	Assign [][][]bool
}

// NewSolutionTensor allocates a zeroed U×D×T tensor.
func NewSolutionTensor(u, d, t int) *SolutionTensor {
	assign := make([][][]bool, u)
	for i := range assign {
		assign[i] = make([][]bool, d)
		for j := range assign[i] {
			assign[i][j] = make([]bool, t)
		}
	}
	return &SolutionTensor{Assign: assign}
}
