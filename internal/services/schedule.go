package services

import (
	"agenda/internal/core"
)

// The daily schedule spans 05:00-23:30 in half-hour slots, rendered as two
// columns of 19 slots each.
const (
	scheduleStartMinutes = 5 * 60
	slotMinutes          = 30
	slotsPerColumn       = 19
	totalSlots           = 2 * slotsPerColumn
)

// Slot is one fixed half-hour interval of the daily schedule grid. The slot
// window is [Start, Start+30min); Columns is the layout hint for the UI: the
// number of equal columns the slot cell is divided into (1 for an empty,
// clickable slot).
type Slot struct {
	Start        string             `json:"start"` // canonical "HH:MM"
	Appointments []core.Appointment `json:"appointments"`
	Columns      int                `json:"columns"`
	// SuggestedEnd pre-fills the end time of an appointment created from
	// this slot: start + 30 minutes, rolling past midnight for the last slot.
	SuggestedEnd string `json:"suggestedEnd"`
}

// DaySchedule is the two-column slot grid for one day.
type DaySchedule struct {
	Date    string `json:"date"`
	Morning []Slot `json:"morning"`   // 05:00-14:00
	Evening []Slot `json:"afternoon"` // 14:30-23:30
}

// SlotStarts enumerates the 38 canonical slot start times.
func SlotStarts() []string {
	starts := make([]string, 0, totalSlots)
	for i := 0; i < totalSlots; i++ {
		starts = append(starts, core.FormatClock(scheduleStartMinutes+i*slotMinutes))
	}
	return starts
}

// BuildDaySchedule places the appointments of one day onto the fixed slot
// grid. An appointment belongs to the slot whose half-open window contains
// its start time. Rows with an unparseable start time are excluded from
// every slot; creation validates clocks, so this only guards legacy data.
func BuildDaySchedule(date core.Date, appointments []core.Appointment) DaySchedule {
	starts := SlotStarts()
	slots := make([]Slot, len(starts))

	for i, start := range starts {
		slotStart, _ := core.ParseClock(start)
		var matched []core.Appointment
		for _, a := range appointments {
			t, err := core.ParseClock(a.StartTime)
			if err != nil {
				continue
			}
			if t >= slotStart && t < slotStart+slotMinutes {
				matched = append(matched, a)
			}
		}

		columns := len(matched)
		if columns == 0 {
			columns = 1
		}
		end, _ := core.AddClock(start, slotMinutes)
		slots[i] = Slot{
			Start:        start,
			Appointments: matched,
			Columns:      columns,
			SuggestedEnd: end,
		}
	}

	return DaySchedule{
		Date:    date.String(),
		Morning: slots[:slotsPerColumn],
		Evening: slots[slotsPerColumn:],
	}
}
