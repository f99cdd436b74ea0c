package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// SessionKind distinguishes the two scheduling spaces. Each kind has its own
// slot calendar and its own eligible room subset.
type SessionKind string

const (
	TheorySession SessionKind = "theory"
	LabSession    SessionKind = "lab"
)

// RoomKind classifies rooms. Lab courses may use lab and computer_lab rooms;
// theory courses only theory rooms.
type RoomKind string

const (
	TheoryRoom      RoomKind = "theory"
	LabRoom         RoomKind = "lab"
	ComputerLabRoom RoomKind = "computer_lab"
)

// Course is immutable for the duration of a scheduling run.
type Course struct {
	ID              string      `mapstructure:"course_id"`
	Name            string      `mapstructure:"course_name"`
	TeacherID       string      `mapstructure:"teacher_id"`
	Department      string      `mapstructure:"department"`
	Semester        int         `mapstructure:"semester"`
	Year            int         `mapstructure:"year"`
	Kind            SessionKind `mapstructure:"session_type"`
	SessionsPerWeek int         `mapstructure:"sessions_per_week"`
	Students        int         `mapstructure:"students_count"`
}

// Room is immutable for the duration of a scheduling run.
type Room struct {
	ID       string   `mapstructure:"room_id"`
	Name     string   `mapstructure:"room_name"`
	Capacity int      `mapstructure:"capacity"`
	Kind     RoomKind `mapstructure:"type"`
}

// Input is the normalized course/room universe a run schedules over.
type Input struct {
	Courses []Course `mapstructure:"courses"`
	Rooms   []Room   `mapstructure:"rooms"`
}

// DeriveRoomKind classifies a room by substring match on its name and
// declared type, mirroring how raw room data is labeled upstream.
func DeriveRoomKind(name, declared string) RoomKind {
	combined := strings.ToLower(name + " " + declared)
	switch {
	case strings.Contains(combined, "computer"):
		return ComputerLabRoom
	case strings.Contains(combined, "lab"):
		return LabRoom
	default:
		return TheoryRoom
	}
}

// EligibleRooms filters rooms compatible with a session kind.
func (input Input) EligibleRooms(kind SessionKind) []Room {
	return lo.Filter(input.Rooms, func(room Room, _ int) bool {
		if kind == LabSession {
			return room.Kind == LabRoom || room.Kind == ComputerLabRoom
		}
		return room.Kind == TheoryRoom
	})
}

// CoursesOfKind filters courses of a session kind.
func (input Input) CoursesOfKind(kind SessionKind) []Course {
	return lo.Filter(input.Courses, func(course Course, _ int) bool {
		return course.Kind == kind
	})
}

// TeacherOf resolves a course id to its teacher id. Unknown courses resolve
// to the empty string.
func (input Input) TeacherOf(courseID string) string {
	course, found := lo.Find(input.Courses, func(course Course) bool {
		return course.ID == courseID
	})
	if !found {
		return ""
	}
	return course.TeacherID
}

// Normalize validates the universe and fills derived fields. It is the data
// model adapter: records come in as already-parsed rows, leave as the shapes
// the variable builder needs. Violations are configuration errors and must
// fail before any solving attempt.
func (input *Input) Normalize() error {
	if len(input.Courses) == 0 {
		return fmt.Errorf("input: course set is empty")
	}
	if len(input.Rooms) == 0 {
		return fmt.Errorf("input: room set is empty")
	}

	courseIDs := map[string]bool{}
	for i := range input.Courses {
		course := &input.Courses[i]
		if course.ID == "" {
			return fmt.Errorf("input: course at position %v has no id", i)
		}
		if courseIDs[course.ID] {
			return fmt.Errorf("input: duplicate course id %v", course.ID)
		}
		courseIDs[course.ID] = true
		if course.Kind != TheorySession && course.Kind != LabSession {
			return fmt.Errorf("input: course %v has unknown session kind %q", course.ID, course.Kind)
		}
		if course.SessionsPerWeek <= 0 {
			return fmt.Errorf("input: course %v requires a positive sessions-per-week, got %v", course.ID, course.SessionsPerWeek)
		}
	}

	roomIDs := map[string]bool{}
	for i := range input.Rooms {
		room := &input.Rooms[i]
		if room.ID == "" {
			return fmt.Errorf("input: room at position %v has no id", i)
		}
		if roomIDs[room.ID] {
			return fmt.Errorf("input: duplicate room id %v", room.ID)
		}
		roomIDs[room.ID] = true
		if room.Kind == "" {
			room.Kind = DeriveRoomKind(room.Name, "")
		}
	}

	return nil
}

// InputFromJSON reads a course/room universe from a json file.
func InputFromJSON(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputJSON map[string]any
	if err := json.Unmarshal(bytes, &inputJSON); err != nil {
		return Input{}, err
	}

	var input Input
	if err := mapstructure.Decode(inputJSON, &input); err != nil {
		return Input{}, err
	}

	if err := input.Normalize(); err != nil {
		return Input{}, err
	}
	return input, nil
}
