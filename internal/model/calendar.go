package model

import "fmt"

// Calendar is an ordered sequence of named time intervals plus the working
// days they repeat over. Calendars are static configuration, never derived
// from course or room data. Theory and lab sessions use different calendars
// because their sessions have different lengths.
type Calendar struct {
	Slots []string
	Days  []string
}

func (c Calendar) NumSlots() int { return len(c.Slots) }
func (c Calendar) NumDays() int  { return len(c.Days) }

// SlotName panics on out-of-range indices: the extractor reaching an unknown
// slot is a programming-contract violation, not an input error.
func (c Calendar) SlotName(slot int) string {
	if slot < 0 || slot >= len(c.Slots) {
		panic(fmt.Sprintf("calendar: slot index %v outside calendar of %v slots", slot, len(c.Slots)))
	}
	return c.Slots[slot]
}

func (c Calendar) DayName(day int) string {
	if day < 0 || day >= len(c.Days) {
		panic(fmt.Sprintf("calendar: day index %v outside calendar of %v days", day, len(c.Days)))
	}
	return c.Days[day]
}

var defaultDays = []string{"Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultTheoryCalendar returns the standard eleven one-hour theory slots.
func DefaultTheoryCalendar() Calendar {
	return Calendar{
		Slots: []string{
			"8:00-8:50", "9:00-9:50", "10:10-11:00", "11:10-12:00",
			"12:10-1:00", "1:20-2:10", "2:20-3:10", "3:30-4:20",
			"4:30-5:20", "5:30-6:20", "6:30-7:20",
		},
		Days: defaultDays,
	}
}

// DefaultLabCalendar returns the standard six two-hour lab slots.
func DefaultLabCalendar() Calendar {
	return Calendar{
		Slots: []string{
			"8:00-10:00", "10:10-12:10", "1:20-3:20",
			"3:30-5:30", "5:40-7:40", "7:50-9:50",
		},
		Days: defaultDays,
	}
}

// DefaultLunchSlot is the theory slot blocked for lunch (12:10-1:00).
const DefaultLunchSlot = 4

// SlotRange is an inclusive range of slot indices.
type SlotRange struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

func (r SlotRange) Contains(slot int) bool {
	return slot >= r.Start && slot <= r.End
}

// morningRange is the legacy "block morning slots" window (first four theory
// slots, 8:00 through 12:00).
var morningRange = SlotRange{Start: 0, End: 3}
