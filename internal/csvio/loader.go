// Package csvio reads course and room universes from csv files and writes
// finished timetables out as json. The scheduling core itself never touches
// the filesystem; everything here feeds or drains it.
package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"coursetable/internal/model"
)

type courseRow struct {
	ID              string `csv:"course_id"`
	Name            string `csv:"course_name"`
	TeacherID       string `csv:"teacher_id"`
	Department      string `csv:"department"`
	Semester        int    `csv:"semester"`
	Year            int    `csv:"Year"`
	SessionType     string `csv:"session_type"`
	SessionsPerWeek int    `csv:"sessions_per_week"`
	StudentsCount   int    `csv:"students_count"`
}

type roomRow struct {
	ID       string `csv:"room_id"`
	Name     string `csv:"room_name"`
	Capacity int    `csv:"capacity"`
	Type     string `csv:"type"`
}

// LoadCourses reads and parses the given csv file for course data.
func LoadCourses(path string) ([]model.Course, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvio: cannot open courses file: %w", err)
	}
	defer file.Close()

	rows := []*courseRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("csvio: cannot parse courses file %v: %w", path, err)
	}

	return lo.Map(rows, func(row *courseRow, _ int) model.Course {
		return model.Course{
			ID:              row.ID,
			Name:            row.Name,
			TeacherID:       row.TeacherID,
			Department:      row.Department,
			Semester:        row.Semester,
			Year:            row.Year,
			Kind:            model.SessionKind(row.SessionType),
			SessionsPerWeek: row.SessionsPerWeek,
			Students:        row.StudentsCount,
		}
	}), nil
}

// LoadRooms reads and parses the given csv file for room data. Room kinds are
// derived from the name and declared type by substring match.
func LoadRooms(path string) ([]model.Room, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvio: cannot open rooms file: %w", err)
	}
	defer file.Close()

	rows := []*roomRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("csvio: cannot parse rooms file %v: %w", path, err)
	}

	return lo.Map(rows, func(row *roomRow, _ int) model.Room {
		return model.Room{
			ID:       row.ID,
			Name:     row.Name,
			Capacity: row.Capacity,
			Kind:     model.DeriveRoomKind(row.Name, row.Type),
		}
	}), nil
}

// LoadInput reads both files and returns a normalized universe.
func LoadInput(coursesPath, roomsPath string) (model.Input, error) {
	courses, err := LoadCourses(coursesPath)
	if err != nil {
		return model.Input{}, err
	}
	rooms, err := LoadRooms(roomsPath)
	if err != nil {
		return model.Input{}, err
	}

	input := model.Input{Courses: courses, Rooms: rooms}
	if err := input.Normalize(); err != nil {
		return model.Input{}, err
	}
	return input, nil
}
