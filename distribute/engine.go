package distribute

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/juanguampe/student-distribution-tool/models"
)

// ProgressFunc reports liveness after each processed student. It may be nil.
type ProgressFunc func(processed, total int)

// State is the live assignment state: each sub-group's roster in seating
// order. It is mutated one student at a time and never rolled back for a
// seated student.
type State map[models.SubGroupKey][]models.SeatedPair

var errMissingField = errors.New("missing required field")

// Run distributes the students into sub-groups and returns the aggregated
// result plus the list of per-student processing errors.
//
// The whole batch is driven by one random stream seeded once: the student
// order is shuffled first, then every student's slot combinations are
// shuffled from the same stream, so identical input order and seed reproduce
// the exact same seating. Students processed earlier get first claim on
// capacity; there is no backtracking, so a student can end up unseated even
// when a different processing order would have seated everyone.
func Run(students []models.StudentRecord, seed int64, progress ProgressFunc) (*models.Result, []error) {
	capacities := BuildCapacityTable(students)
	state := newState(students)
	rng := rand.New(rand.NewSource(seed))

	order := make([]int, len(students))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var errs []error
	seated := 0
	for done, idx := range order {
		s := students[idx]
		if err := checkRecord(s); err != nil {
			// Equivalent to unseated: recorded, not fatal to the batch.
			errs = append(errs, fmt.Errorf("student %q: %w", s.Name, err))
		} else if seatStudent(state, capacities, rng, s) {
			seated++
		}
		if progress != nil {
			progress(done+1, len(order))
		}
	}

	result := Aggregate(state, students)
	result.Seated = seated
	result.Total = len(students)
	return result, errs
}

// newState pre-creates the three numbered sub-groups for every distinct
// choice value seen in any track column. Empty ones are dropped later by the
// aggregator's roster view.
func newState(students []models.StudentRecord) State {
	state := make(State)
	for _, column := range trackColumns() {
		for _, s := range students {
			choice := column(s)
			if choice == "" {
				continue
			}
			for slot := 1; slot <= 3; slot++ {
				key := models.SubGroupKey{Choice: choice, Slot: slot}
				if _, ok := state[key]; !ok {
					state[key] = []models.SeatedPair{}
				}
			}
		}
	}
	return state
}

func checkRecord(s models.StudentRecord) error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name", errMissingField)
	case s.Track1 == "":
		return fmt.Errorf("%w: track 1 choice", errMissingField)
	case s.Track2 == "":
		return fmt.Errorf("%w: track 2 choice", errMissingField)
	case s.Track3 == "":
		return fmt.Errorf("%w: track 3 choice", errMissingField)
	}
	return nil
}

// seatStudent tries the 6 conflict-free slot combinations for one student and
// seats them into the first one with room in all three sub-groups. Returns
// false when every combination is full.
func seatStudent(state State, capacities map[string]int, rng *rand.Rand, s models.StudentRecord) bool {
	combos := slotCombos()

	// Shuffle first for tie-break randomness, then stable-sort by how full
	// the three target sub-groups currently are, so the least-filled
	// combination is tried first and equally filled ones keep their shuffled
	// order.
	rng.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
	sort.SliceStable(combos, func(i, j int) bool {
		return occupancySum(state, s, combos[i]) < occupancySum(state, s, combos[j])
	})

	for _, combo := range combos {
		keys := comboKeys(s, combo)
		if !fits(state, capacities, keys) {
			continue
		}
		pair := models.SeatedPair{Name: s.Name, Cohort: s.Cohort}
		for _, key := range keys {
			state[key] = append(state[key], pair)
		}
		return true
	}
	return false
}

// slotCombos enumerates every assignment of slot numbers 1..3 to the three
// tracks where no two tracks share a slot. Always 6 combinations.
func slotCombos() [][3]int {
	combos := make([][3]int, 0, 6)
	for x := 1; x <= 3; x++ {
		for y := 1; y <= 3; y++ {
			for z := 1; z <= 3; z++ {
				if x != y && y != z && x != z {
					combos = append(combos, [3]int{x, y, z})
				}
			}
		}
	}
	return combos
}

func comboKeys(s models.StudentRecord, combo [3]int) [3]models.SubGroupKey {
	return [3]models.SubGroupKey{
		{Choice: s.Track1, Slot: combo[0]},
		{Choice: s.Track2, Slot: combo[1]},
		{Choice: s.Track3, Slot: combo[2]},
	}
}

func occupancySum(state State, s models.StudentRecord, combo [3]int) int {
	sum := 0
	for _, key := range comboKeys(s, combo) {
		sum += len(state[key])
	}
	return sum
}

func fits(state State, capacities map[string]int, keys [3]models.SubGroupKey) bool {
	for _, key := range keys {
		capacity, ok := capacities[key.Choice]
		if !ok {
			capacity = DefaultCapacity
		}
		if len(state[key]) >= capacity {
			return false
		}
	}
	return true
}
