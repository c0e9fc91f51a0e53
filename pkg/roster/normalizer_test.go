package roster

import (
	"errors"
	"testing"
	"time"
)

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func baseInput() RosterInput {
	return RosterInput{
		Days: []string{"Mon", "Tue"},
		Roster: []RosterRow{
			{Key: "ana", Name: "Ana", Gender: "F", ExpLevel: 4, TaskAnswers: map[string]Answer{
				"reception": AnswerAccept,
			}},
			{Key: "bea", Name: "Bea", Gender: "M", ExpLevel: 1, TaskAnswers: map[string]Answer{
				"reception": AnswerRefuse,
			}},
		},
		Demand: []DemandRow{
			{Task: "reception", Headcount: 1, Female: 1, Experience: 0},
		},
		Availability: []AvailabilityCell{
			{PersonKey: "ana", Day: "Mon", Value: "reception"},
			{PersonKey: "bea", Day: "Tue", Value: CellIndisp},
		},
	}
}

func TestNormalize_DerivesAttributesAndForceReject(t *testing.T) {
	n := NewNormalizer(3)
	info, err := n.Normalize(baseInput())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if info.U != 2 || info.D != 2 || info.T != 1 {
		t.Fatalf("unexpected shape: U=%d D=%d T=%d", info.U, info.D, info.T)
	}

	if info.Female[0] != 1 || info.Exp[0] != 1 {
		t.Fatalf("expected ana (F, exp 4>=3) to have female=1 exp=1, got female=%d exp=%d", info.Female[0], info.Exp[0])
	}
	if info.Female[1] != 0 || info.Exp[1] != 0 {
		t.Fatalf("expected bea (M, exp 1<3) to have female=0 exp=0, got female=%d exp=%d", info.Female[1], info.Exp[1])
	}

	wantForce := Triple{Unit: 0, Day: 0, Task: 0}
	if len(info.Force) != 1 || info.Force[0] != wantForce {
		t.Fatalf("expected force=[%v], got %v", wantForce, info.Force)
	}

	// bea refuses reception for every day, plus is marked indisp on Tue
	// (redundant with task 0, the only task, but still deduped to one
	// entry per day).
	if len(info.Reject) != 2 {
		t.Fatalf("expected 2 reject entries (one per day), got %d: %v", len(info.Reject), info.Reject)
	}
}

func TestNormalize_RejectsTaskSetMismatch(t *testing.T) {
	in := baseInput()
	in.Demand = append(in.Demand, DemandRow{Task: "kitchen", Headcount: 1})

	n := NewNormalizer(3)
	_, err := n.Normalize(in)
	if err == nil {
		t.Fatalf("expected an error when demand names a task no roster row answers")
	}
	var target *InconsistentInputsError
	if !errors.As(err, &target) {
		t.Fatalf("expected *InconsistentInputsError, got %T: %v", err, err)
	}
}

func TestNormalize_RejectsUnknownAvailabilityPerson(t *testing.T) {
	in := baseInput()
	in.Availability = append(in.Availability, AvailabilityCell{PersonKey: "ghost", Day: "Mon", Value: "reception"})

	n := NewNormalizer(3)
	_, err := n.Normalize(in)
	if err == nil {
		t.Fatalf("expected an error for an availability cell referencing an unknown person")
	}
}

func TestExpandDays_WeeklyRecurrence(t *testing.T) {
	days, err := ExpandDays(Recurrence{
		RRule: "FREQ=WEEKLY;INTERVAL=1",
		Start: mustParseDate("2026-01-05"), // a Monday
		Count: 3,
	})
	if err != nil {
		t.Fatalf("ExpandDays: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 day labels, got %d: %v", len(days), days)
	}
	if days[0] != "05/01/2026" {
		t.Fatalf("expected first day 05/01/2026, got %s", days[0])
	}
}
