package distribute

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanguampe/student-distribution-tool/models"
)

func sameChoiceStudents(n int) []models.StudentRecord {
	students := make([]models.StudentRecord, n)
	for i := range students {
		students[i] = models.StudentRecord{
			Name:   fmt.Sprintf("student-%d", i),
			Cohort: "11A",
			Track1: "CN1", Track2: "CS1", Track3: "CF1",
		}
	}
	return students
}

func TestRun_SeatsFullBatch(t *testing.T) {
	// Six students on one choice set: capacity 2 per slot, all six fit.
	students := sameChoiceStudents(6)

	result, errs := Run(students, 42, nil)

	require.Empty(t, errs)
	require.Equal(t, 6, result.Total)
	require.Equal(t, 6, result.Seated)
	require.Len(t, result.Summary, 6)

	// Every sub-group of every choice holds exactly its capacity of 2.
	require.Len(t, result.Groups, 9)
	for _, g := range result.Groups {
		assert.Len(t, g.Members, 2, "sub-group %s", g.Key)
	}
}

func TestRun_SlotNumbersPairwiseDistinct(t *testing.T) {
	students := []models.StudentRecord{
		{Name: "ana", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
		{Name: "ben", Track1: "CN1", Track2: "CS2", Track3: "CF1"},
		{Name: "carla", Track1: "CN2", Track2: "CS1", Track3: "CF2"},
		{Name: "dario", Track1: "CN2", Track2: "CS2", Track3: "CF2"},
		{Name: "elena", Track1: "CN1", Track2: "CS1", Track3: "CF2"},
	}

	result, errs := Run(students, 7, nil)

	require.Empty(t, errs)
	require.GreaterOrEqual(t, result.Seated, 1)
	for _, row := range result.Summary {
		if row.Slot1 == "" || row.Slot2 == "" || row.Slot3 == "" {
			continue // unseated, no clash to check
		}
		assert.NotEqual(t, row.Slot1, row.Slot2, "student %s", row.Name)
		assert.NotEqual(t, row.Slot2, row.Slot3, "student %s", row.Name)
		assert.NotEqual(t, row.Slot1, row.Slot3, "student %s", row.Name)
	}
}

func TestRun_SingleStudentGetsSomeBijection(t *testing.T) {
	students := sameChoiceStudents(1)

	result, errs := Run(students, 99, nil)

	require.Empty(t, errs)
	require.Equal(t, 1, result.Seated)
	row := result.Summary[0]
	slots := map[string]bool{row.Slot1: true, row.Slot2: true, row.Slot3: true}
	require.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, slots)
}

func TestRun_DeterministicForSameSeed(t *testing.T) {
	students := []models.StudentRecord{
		{Name: "ana", Cohort: "11A", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
		{Name: "ben", Cohort: "11B", Track1: "CN2", Track2: "CS1", Track3: "CF2"},
		{Name: "carla", Cohort: "11A", Track1: "CN1", Track2: "CS2", Track3: "CF1"},
		{Name: "dario", Cohort: "11C", Track1: "CN2", Track2: "CS2", Track3: "CF2"},
		{Name: "elena", Cohort: "11B", Track1: "CN1", Track2: "CS1", Track3: "CF2"},
		{Name: "felix", Cohort: "11C", Track1: "CN2", Track2: "CS1", Track3: "CF1"},
	}

	first, errs1 := Run(students, 42, nil)
	second, errs2 := Run(students, 42, nil)

	require.Empty(t, errs1)
	require.Empty(t, errs2)
	require.Equal(t, first.Groups, second.Groups)
	require.Equal(t, first.Summary, second.Summary)
	require.Equal(t, first.Seated, second.Seated)
}

func TestRun_OccupancyNeverExceedsCapacity(t *testing.T) {
	// 40 students over a mixed choice pool, several seeds.
	var students []models.StudentRecord
	for i := 0; i < 40; i++ {
		students = append(students, models.StudentRecord{
			Name:   fmt.Sprintf("s%02d", i),
			Track1: fmt.Sprintf("CN%d", i%2+1),
			Track2: fmt.Sprintf("CS%d", i%3+1),
			Track3: fmt.Sprintf("CF%d", i%2+1),
		})
	}
	capacities := BuildCapacityTable(students)

	for _, seed := range []int64{1, 42, 1234} {
		result, errs := Run(students, seed, nil)

		require.Empty(t, errs)
		for _, g := range result.Groups {
			assert.LessOrEqual(t, len(g.Members), capacities[g.Key.Choice],
				"seed %d sub-group %s", seed, g.Key)
		}
	}
}

func TestRun_MalformedRecordDoesNotAbortBatch(t *testing.T) {
	students := []models.StudentRecord{
		{Name: "ana", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
		{Name: "broken", Track1: "CN1", Track2: "", Track3: "CF1"},
		{Name: "", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
		{Name: "carla", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
	}

	result, errs := Run(students, 5, nil)

	require.Len(t, errs, 2)
	require.Equal(t, 4, result.Total)
	require.Equal(t, 2, result.Seated)

	// The malformed rows still appear in the summary, unassigned.
	require.Len(t, result.Summary, 4)
	require.Empty(t, result.Summary[1].Slot2)
}

func TestRun_ProgressCallback(t *testing.T) {
	students := sameChoiceStudents(5)

	var calls [][2]int
	_, errs := Run(students, 3, func(processed, total int) {
		calls = append(calls, [2]int{processed, total})
	})

	require.Empty(t, errs)
	require.Len(t, calls, 5)
	require.Equal(t, [2]int{1, 5}, calls[0])
	require.Equal(t, [2]int{5, 5}, calls[4])
}

func TestRun_EmptyBatch(t *testing.T) {
	result, errs := Run(nil, 42, nil)

	require.Empty(t, errs)
	require.Equal(t, 0, result.Total)
	require.Equal(t, 0, result.Seated)
	require.Empty(t, result.Groups)
	require.Empty(t, result.Summary)
}

func TestSeatStudent_UnseatedWhenEveryCombinationIsFull(t *testing.T) {
	s := models.StudentRecord{Name: "late", Track1: "CN1", Track2: "CS1", Track3: "CF1"}
	state := newState([]models.StudentRecord{s})

	// Fill every CN1 slot to an artificial capacity of 1.
	filler := models.SeatedPair{Name: "filler"}
	for slot := 1; slot <= 3; slot++ {
		key := models.SubGroupKey{Choice: "CN1", Slot: slot}
		state[key] = append(state[key], filler)
	}
	capacities := map[string]int{"CN1": 1, "CS1": 1, "CF1": 1}

	rng := rand.New(rand.NewSource(0))
	seated := seatStudent(state, capacities, rng, s)

	require.False(t, seated)
	// A failed seating leaves the state untouched.
	for slot := 1; slot <= 3; slot++ {
		require.Empty(t, state[models.SubGroupKey{Choice: "CS1", Slot: slot}])
		require.Empty(t, state[models.SubGroupKey{Choice: "CF1", Slot: slot}])
	}
}

func TestSeatStudent_FallbackCapacityForUnknownChoice(t *testing.T) {
	s := models.StudentRecord{Name: "ana", Track1: "ZZ1", Track2: "ZZ2", Track3: "ZZ3"}
	state := newState([]models.StudentRecord{s})

	rng := rand.New(rand.NewSource(0))
	seated := seatStudent(state, map[string]int{}, rng, s)

	require.True(t, seated)
}

func TestSlotCombos(t *testing.T) {
	combos := slotCombos()

	require.Len(t, combos, 6)
	seen := map[[3]int]bool{}
	for _, c := range combos {
		require.NotEqual(t, c[0], c[1])
		require.NotEqual(t, c[1], c[2])
		require.NotEqual(t, c[0], c[2])
		require.False(t, seen[c], "duplicate combo %v", c)
		seen[c] = true
	}
}
