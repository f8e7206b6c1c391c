package models

import "fmt"

// StudentRecord is one row of the uploaded choice sheet: a student plus the
// option they chose in each of the three seminar tracks. Cohort is the
// optional GROUP column, carried through untouched and never used for
// assignment decisions.
type StudentRecord struct {
	Name   string `json:"name"`
	Cohort string `json:"cohort"`
	Track1 string `json:"track1"` // CN column
	Track2 string `json:"track2"` // CS column
	Track3 string `json:"track3"` // CF column
}

// SubGroupKey identifies one physical sub-group: a choice value split into
// numbered slots 1..3.
type SubGroupKey struct {
	Choice string `json:"choice"`
	Slot   int    `json:"slot"`
}

// String renders the key the way exported sheets are named, e.g. "CN1-G2".
func (k SubGroupKey) String() string {
	return fmt.Sprintf("%s-G%d", k.Choice, k.Slot)
}

// SeatedPair is one seated student as stored in a sub-group roster, in
// seating order.
type SeatedPair struct {
	Name   string `json:"name"`
	Cohort string `json:"cohort"`
}

// SummaryRow is one student's line in the per-student summary view. The slot
// fields hold the assigned slot number as a string, or "" when the student is
// unseated or no sub-group matched that track's choice.
type SummaryRow struct {
	Name   string `json:"name"`
	Cohort string `json:"cohort"`
	Track1 string `json:"track1"`
	Slot1  string `json:"slot1"`
	Track2 string `json:"track2"`
	Slot2  string `json:"slot2"`
	Track3 string `json:"track3"`
	Slot3  string `json:"slot3"`
}

// RosterGroup is the roster view of one non-empty sub-group.
type RosterGroup struct {
	Key     SubGroupKey  `json:"key"`
	Members []SeatedPair `json:"members"`
}

// Result is the outcome of one distribution batch. Groups lists non-empty
// sub-groups in sorted (choice, slot) order; Summary has one row per input
// student in their original order.
type Result struct {
	Groups  []RosterGroup `json:"groups"`
	Summary []SummaryRow  `json:"summary"`
	Seated  int           `json:"seated"`
	Total   int           `json:"total"`
}
