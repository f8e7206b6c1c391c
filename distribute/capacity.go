package distribute

import "github.com/juanguampe/student-distribution-tool/models"

// DefaultCapacity caps sub-groups of choice values that never made it into
// the capacity table (e.g. a choice seen at seating time but blank during
// planning).
const DefaultCapacity = 21

// BuildCapacityTable computes, for every distinct choice value in the three
// track columns, the maximum occupancy of each of its three numbered
// sub-groups: ceil(choosers/3), so 3*capacity always covers every chooser.
//
// Buckets are keyed by the literal choice string. Track columns are counted
// in order, so if two tracks share a choice string the later track's count
// wins and the tracks share one bucket; choice strings are expected to be
// globally unique across tracks. Blank values are not counted. An empty
// student list yields an empty table.
func BuildCapacityTable(students []models.StudentRecord) map[string]int {
	capacities := make(map[string]int)
	for _, column := range trackColumns() {
		counts := make(map[string]int)
		for _, s := range students {
			if choice := column(s); choice != "" {
				counts[choice]++
			}
		}
		for choice, n := range counts {
			capacities[choice] = (n + 2) / 3
		}
	}
	return capacities
}

// trackColumns returns accessors for the three track-choice columns in their
// fixed order.
func trackColumns() []func(models.StudentRecord) string {
	return []func(models.StudentRecord) string{
		func(s models.StudentRecord) string { return s.Track1 },
		func(s models.StudentRecord) string { return s.Track2 },
		func(s models.StudentRecord) string { return s.Track3 },
	}
}
