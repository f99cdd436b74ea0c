package model

import (
	"fmt"

	"coursetable/internal/solve"
)

// VarSpace is the decision-variable space of one session kind:
// course id -> day index -> slot index -> room id -> variable. Variables are
// owned by the solving model once created; the space only navigates them.
type VarSpace map[string]map[int]map[int]map[string]solve.BoolVar

// ForEach visits every variable in the space in unspecified order.
func (space VarSpace) ForEach(visit func(courseID string, day, slot int, roomID string, v solve.BoolVar)) {
	for courseID, days := range space {
		for day, slots := range days {
			for slot, rooms := range slots {
				for roomID, v := range rooms {
					visit(courseID, day, slot, roomID, v)
				}
			}
		}
	}
}

// CourseVars collects every variable belonging to one course.
func (space VarSpace) CourseVars(courseID string) []solve.BoolVar {
	vars := []solve.BoolVar{}
	for _, slots := range space[courseID] {
		for _, rooms := range slots {
			for _, v := range rooms {
				vars = append(vars, v)
			}
		}
	}
	return vars
}

// DayVars collects every variable of one course on one day.
func (space VarSpace) DayVars(courseID string, day int) []solve.BoolVar {
	vars := []solve.BoolVar{}
	for _, rooms := range space[courseID][day] {
		for _, v := range rooms {
			vars = append(vars, v)
		}
	}
	return vars
}

// SlotVars collects every variable of one course on one day and slot. Missing
// indices yield an empty slice, never an error: calendars legitimately differ
// in slot count between kinds.
func (space VarSpace) SlotVars(courseID string, day, slot int) []solve.BoolVar {
	vars := []solve.BoolVar{}
	for _, v := range space[courseID][day][slot] {
		vars = append(vars, v)
	}
	return vars
}

// BuildVariables creates one boolean decision variable per
// (course, day, slot, room) combination, separately for the lab and theory
// kinds and restricted to kind-compatible rooms. A course kind with demand
// but zero eligible rooms is a configuration error, reported before any
// solving attempt.
func BuildVariables(m *solve.Model, input Input, labCal, theoryCal Calendar) (lab, theory VarSpace, err error) {
	lab, err = buildKindVariables(m, input, LabSession, labCal)
	if err != nil {
		return nil, nil, err
	}
	theory, err = buildKindVariables(m, input, TheorySession, theoryCal)
	if err != nil {
		return nil, nil, err
	}
	return lab, theory, nil
}

func buildKindVariables(m *solve.Model, input Input, kind SessionKind, calendar Calendar) (VarSpace, error) {
	courses := input.CoursesOfKind(kind)
	rooms := input.EligibleRooms(kind)

	if len(courses) > 0 && len(rooms) == 0 {
		return nil, fmt.Errorf("variables: no eligible %v rooms for %v %v courses", kind, len(courses), kind)
	}

	space := VarSpace{}
	for _, course := range courses {
		space[course.ID] = map[int]map[int]map[string]solve.BoolVar{}
		for day := range calendar.NumDays() {
			space[course.ID][day] = map[int]map[string]solve.BoolVar{}
			for slot := range calendar.NumSlots() {
				space[course.ID][day][slot] = map[string]solve.BoolVar{}
				for _, room := range rooms {
					name := fmt.Sprintf("%v_%v_%v_%v_%v", kind, course.ID, calendar.DayName(day), calendar.SlotName(slot), room.ID)
					space[course.ID][day][slot][room.ID] = m.NewBoolVar(name)
				}
			}
		}
	}
	return space, nil
}
