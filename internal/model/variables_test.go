package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursetable/internal/solve"
)

func testRooms() []Room {
	return []Room{
		{ID: "R001", Name: "Theory Room 1", Capacity: 60, Kind: TheoryRoom},
		{ID: "CL001", Name: "Computer Lab 1", Capacity: 30, Kind: ComputerLabRoom},
		{ID: "LAB001", Name: "Programming Lab", Capacity: 35, Kind: LabRoom},
	}
}

func TestBuildVariablesKindCompatibility(t *testing.T) {
	// Arrange
	input := Input{
		Courses: []Course{
			{ID: "CS101", TeacherID: "T1", Kind: TheorySession, SessionsPerWeek: 3},
			{ID: "CS102", TeacherID: "T2", Kind: LabSession, SessionsPerWeek: 2},
		},
		Rooms: testRooms(),
	}
	m := solve.NewModel()

	// Act
	lab, theory, err := BuildVariables(m, input, DefaultLabCalendar(), DefaultTheoryCalendar())

	// Assert
	assert.Nil(t, err)

	// Theory: 5 days * 11 slots * 1 theory room
	assert.Len(t, theory.CourseVars("CS101"), 5*11*1)
	// Lab: 5 days * 6 slots * 2 lab-kind rooms
	assert.Len(t, lab.CourseVars("CS102"), 5*6*2)
	assert.Equal(t, 5*11*1+5*6*2, m.NumVars())

	// Theory course owns no lab variables and vice versa
	assert.Empty(t, lab.CourseVars("CS101"))
	assert.Empty(t, theory.CourseVars("CS102"))

	// No theory variable points at a lab room
	theory.ForEach(func(_ string, _, _ int, roomID string, _ solve.BoolVar) {
		assert.Equal(t, "R001", roomID)
	})
}

func TestBuildVariablesNoEligibleRooms(t *testing.T) {
	// Arrange: a theory course with only lab rooms available
	input := Input{
		Courses: []Course{
			{ID: "CS101", TeacherID: "T1", Kind: TheorySession, SessionsPerWeek: 3},
		},
		Rooms: []Room{
			{ID: "LAB001", Name: "Programming Lab", Capacity: 35, Kind: LabRoom},
		},
	}
	m := solve.NewModel()

	// Act
	_, _, err := BuildVariables(m, input, DefaultLabCalendar(), DefaultTheoryCalendar())

	// Assert
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no eligible")
}

func TestSlotVarsMissingIndicesAreEmpty(t *testing.T) {
	// Arrange
	input := Input{
		Courses: []Course{{ID: "CS102", TeacherID: "T2", Kind: LabSession, SessionsPerWeek: 2}},
		Rooms:   testRooms(),
	}
	m := solve.NewModel()
	lab, _, err := BuildVariables(m, input, DefaultLabCalendar(), DefaultTheoryCalendar())
	assert.Nil(t, err)

	// Act: slot 10 exists in the theory calendar but not the lab calendar
	vars := lab.SlotVars("CS102", 0, 10)

	// Assert
	assert.Empty(t, vars)
}

func TestDeriveRoomKind(t *testing.T) {
	assert.Equal(t, ComputerLabRoom, DeriveRoomKind("Computer Lab 1", ""))
	assert.Equal(t, ComputerLabRoom, DeriveRoomKind("CL-2", "computer_lab"))
	assert.Equal(t, LabRoom, DeriveRoomKind("Programming Lab", "lab"))
	assert.Equal(t, TheoryRoom, DeriveRoomKind("Theory Room 1", "theory"))
	assert.Equal(t, TheoryRoom, DeriveRoomKind("R204", ""))
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input Input
	}{
		{"empty courses", Input{Rooms: testRooms()}},
		{"empty rooms", Input{Courses: []Course{{ID: "C1", Kind: TheorySession, SessionsPerWeek: 1}}}},
		{"zero sessions", Input{
			Courses: []Course{{ID: "C1", Kind: TheorySession, SessionsPerWeek: 0}},
			Rooms:   testRooms(),
		}},
		{"unknown kind", Input{
			Courses: []Course{{ID: "C1", Kind: "seminar", SessionsPerWeek: 1}},
			Rooms:   testRooms(),
		}},
		{"duplicate course", Input{
			Courses: []Course{
				{ID: "C1", Kind: TheorySession, SessionsPerWeek: 1},
				{ID: "C1", Kind: TheorySession, SessionsPerWeek: 1},
			},
			Rooms: testRooms(),
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.NotNil(t, c.input.Normalize())
		})
	}
}
