package model

import (
	"coursetable/internal/solve"
)

// Schedule maps day name -> slot name -> room id -> course id for one session
// kind. Built once after solving, read-only thereafter.
type Schedule map[string]map[string]map[string]string

// Sessions counts the assignments recorded in the schedule.
func (s Schedule) Sessions() int {
	count := 0
	for _, slots := range s {
		for _, rooms := range slots {
			count += len(rooms)
		}
	}
	return count
}

// ExtractSchedule walks every variable of the space and records each 1-valued
// assignment into the schedule. It trusts the solving engine: no constraint is
// re-validated here, and an index outside the calendar panics as a
// programming-contract violation (see Calendar.SlotName).
func ExtractSchedule(result solve.Result, space VarSpace, calendar Calendar) Schedule {
	schedule := Schedule{}
	space.ForEach(func(courseID string, day, slot int, roomID string, v solve.BoolVar) {
		if !result.Value(v) {
			return
		}
		dayName := calendar.DayName(day)
		slotName := calendar.SlotName(slot)

		if schedule[dayName] == nil {
			schedule[dayName] = map[string]map[string]string{}
		}
		if schedule[dayName][slotName] == nil {
			schedule[dayName][slotName] = map[string]string{}
		}
		schedule[dayName][slotName][roomID] = courseID
	})
	return schedule
}
