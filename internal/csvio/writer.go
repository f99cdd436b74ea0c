package csvio

import (
	"encoding/json"
	"fmt"
	"os"

	"coursetable/internal/model"
)

type timetableDocument struct {
	Status      string         `json:"status"`
	Variables   int            `json:"variables"`
	Constraints int            `json:"constraints"`
	Objective   int            `json:"objective"`
	Lab         model.Schedule `json:"lab"`
	Theory      model.Schedule `json:"theory"`
}

// WriteTimetable serializes a finished timetable to a json file. An empty
// path writes to standard output.
func WriteTimetable(path string, timetable *model.Timetable) error {
	document := timetableDocument{
		Status:      timetable.Status.String(),
		Variables:   timetable.Variables,
		Constraints: timetable.Constraints,
		Objective:   timetable.Objective,
		Lab:         timetable.Lab,
		Theory:      timetable.Theory,
	}

	bytes, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("csvio: cannot marshal timetable: %w", err)
	}

	if path == "" {
		_, err = fmt.Println(string(bytes))
		return err
	}
	return os.WriteFile(path, bytes, 0666)
}
