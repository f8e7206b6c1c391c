package distribute

import (
	"sort"
	"strconv"

	"github.com/juanguampe/student-distribution-tool/models"
)

// Aggregate turns the assignment state into the two export views: non-empty
// sub-group rosters in sorted key order, and one summary row per student in
// original input order. It only reads the state, so re-running it over the
// same state yields identical views.
func Aggregate(state State, students []models.StudentRecord) *models.Result {
	keys := SortedKeys(state)

	groups := make([]models.RosterGroup, 0, len(keys))
	for _, key := range keys {
		if len(state[key]) == 0 {
			continue
		}
		groups = append(groups, models.RosterGroup{Key: key, Members: state[key]})
	}

	summary := make([]models.SummaryRow, 0, len(students))
	for _, s := range students {
		row := models.SummaryRow{
			Name:   s.Name,
			Cohort: s.Cohort,
			Track1: s.Track1,
			Track2: s.Track2,
			Track3: s.Track3,
		}
		// Reverse lookup: scan every sub-group for this student's name and
		// match the group's choice value back to the track it came from.
		// O(students x subgroups), fine at the batch sizes this tool sees.
		for _, key := range keys {
			if !containsName(state[key], s.Name) {
				continue
			}
			slot := strconv.Itoa(key.Slot)
			switch key.Choice {
			case s.Track1:
				row.Slot1 = slot
			case s.Track2:
				row.Slot2 = slot
			case s.Track3:
				row.Slot3 = slot
			}
		}
		summary = append(summary, row)
	}

	return &models.Result{Groups: groups, Summary: summary}
}

// SortedKeys returns every sub-group key in the state ordered by choice value
// then slot number, for stable export.
func SortedKeys(state State) []models.SubGroupKey {
	keys := make([]models.SubGroupKey, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Choice != keys[j].Choice {
			return keys[i].Choice < keys[j].Choice
		}
		return keys[i].Slot < keys[j].Slot
	})
	return keys
}

func containsName(members []models.SeatedPair, name string) bool {
	for _, m := range members {
		if m.Name == name {
			return true
		}
	}
	return false
}
