package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const universeJSON = `{
  "courses": [
    {
      "course_id": "CS101",
      "course_name": "Programming",
      "teacher_id": "T1",
      "session_type": "theory",
      "sessions_per_week": 2,
      "students_count": 60
    },
    {
      "course_id": "CS102",
      "course_name": "Programming Lab",
      "teacher_id": "T1",
      "session_type": "lab",
      "sessions_per_week": 1,
      "students_count": 30
    }
  ],
  "rooms": [
    {"room_id": "R001", "room_name": "Theory Room 1", "capacity": 60, "type": "theory"},
    {"room_id": "CL001", "room_name": "Computer Lab 1", "capacity": 30, "type": "computer_lab"}
  ]
}`

func TestInputFromJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.json")
	require.Nil(t, os.WriteFile(path, []byte(universeJSON), 0666))

	// Act
	input, err := InputFromJSON(path)

	// Assert
	require.Nil(t, err)
	require.Len(t, input.Courses, 2)
	require.Len(t, input.Rooms, 2)

	first := input.Courses[0]
	assert.Equal(t, "CS101", first.ID)
	assert.Equal(t, "T1", first.TeacherID)
	assert.Equal(t, TheorySession, first.Kind)
	assert.Equal(t, 2, first.SessionsPerWeek)
	assert.Equal(t, 60, first.Students)
	assert.Equal(t, LabSession, input.Courses[1].Kind)

	assert.Equal(t, TheoryRoom, input.Rooms[0].Kind)
	assert.Equal(t, ComputerLabRoom, input.Rooms[1].Kind)
}

func TestInputFromJSONMissingFile(t *testing.T) {
	_, err := InputFromJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.NotNil(t, err)
}

func TestInputFromJSONRejectsInvalidUniverse(t *testing.T) {
	// Arrange: a course demanding zero sessions fails normalization
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.json")
	broken := `{
  "courses": [{"course_id": "CS101", "teacher_id": "T1", "session_type": "theory", "sessions_per_week": 0}],
  "rooms": [{"room_id": "R001", "room_name": "Theory Room 1", "capacity": 60, "type": "theory"}]
}`
	require.Nil(t, os.WriteFile(path, []byte(broken), 0666))

	// Act
	_, err := InputFromJSON(path)

	// Assert
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "sessions-per-week")
}
