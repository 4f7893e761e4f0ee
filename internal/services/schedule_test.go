package services

import (
	"testing"

	"agenda/internal/core"
)

func TestSlotStarts(t *testing.T) {
	starts := SlotStarts()
	if len(starts) != 38 {
		t.Fatalf("len(starts) = %d, want 38", len(starts))
	}
	if starts[0] != "05:00" {
		t.Errorf("first slot = %s, want 05:00", starts[0])
	}
	if starts[18] != "14:00" {
		t.Errorf("last morning slot = %s, want 14:00", starts[18])
	}
	if starts[19] != "14:30" {
		t.Errorf("first evening slot = %s, want 14:30", starts[19])
	}
	if starts[37] != "23:30" {
		t.Errorf("last slot = %s, want 23:30", starts[37])
	}
}

func TestBuildDayScheduleConcurrentAppointments(t *testing.T) {
	date := core.NewDate(2024, 3, 15)
	appointments := []core.Appointment{
		{ID: 1, Title: "Dentist", StartTime: "09:00"},
		{ID: 2, Title: "Call", StartTime: "09:15"},
	}

	grid := BuildDaySchedule(date, appointments)

	if len(grid.Morning) != 19 || len(grid.Evening) != 19 {
		t.Fatalf("column sizes = %d/%d, want 19/19", len(grid.Morning), len(grid.Evening))
	}
	if grid.Date != "2024-03-15" {
		t.Errorf("date = %s", grid.Date)
	}

	slotAt := func(start string) Slot {
		t.Helper()
		for _, s := range append(grid.Morning, grid.Evening...) {
			if s.Start == start {
				return s
			}
		}
		t.Fatalf("slot %s not found", start)
		return Slot{}
	}

	nine := slotAt("09:00")
	if len(nine.Appointments) != 2 {
		t.Fatalf("slot 09:00 holds %d appointments, want 2", len(nine.Appointments))
	}
	if nine.Columns != 2 {
		t.Errorf("slot 09:00 columns = %d, want 2", nine.Columns)
	}

	nineThirty := slotAt("09:30")
	if len(nineThirty.Appointments) != 0 {
		t.Errorf("slot 09:30 should be empty, holds %d", len(nineThirty.Appointments))
	}
	if nineThirty.Columns != 1 {
		t.Errorf("empty slot columns = %d, want 1", nineThirty.Columns)
	}
	if nineThirty.SuggestedEnd != "10:00" {
		t.Errorf("slot 09:30 suggested end = %s, want 10:00", nineThirty.SuggestedEnd)
	}
}

func TestBuildDayScheduleEveryAppointmentInExactlyOneSlot(t *testing.T) {
	date := core.NewDate(2024, 3, 15)
	appointments := []core.Appointment{
		{ID: 1, StartTime: "05:00"},
		{ID: 2, StartTime: "05:29"},
		{ID: 3, StartTime: "14:00"},
		{ID: 4, StartTime: "14:29"},
		{ID: 5, StartTime: "23:30"},
		{ID: 6, StartTime: "23:59"},
		{ID: 7, StartTime: "bogus"}, // unparseable: assigned to no slot
		{ID: 8, StartTime: "04:59"}, // before the grid: assigned to no slot
	}

	grid := BuildDaySchedule(date, appointments)

	seen := map[int64]int{}
	for _, s := range append(grid.Morning, grid.Evening...) {
		for _, a := range s.Appointments {
			seen[a.ID]++
		}
	}

	for id := int64(1); id <= 6; id++ {
		if seen[id] != 1 {
			t.Errorf("appointment %d assigned to %d slots, want 1", id, seen[id])
		}
	}
	if seen[7] != 0 {
		t.Error("unparseable start time must be excluded from every slot")
	}
	if seen[8] != 0 {
		t.Error("pre-grid start time must be excluded from every slot")
	}

	// Boundary membership: 05:29 shares the 05:00 slot, 23:59 lands in 23:30.
	for _, s := range grid.Morning {
		if s.Start == "05:00" && len(s.Appointments) != 2 {
			t.Errorf("slot 05:00 holds %d, want 2", len(s.Appointments))
		}
	}
	last := grid.Evening[len(grid.Evening)-1]
	if last.Start != "23:30" || len(last.Appointments) != 2 {
		t.Errorf("slot 23:30 = %s holds %d, want 2", last.Start, len(last.Appointments))
	}
	if last.SuggestedEnd != "00:00" {
		t.Errorf("slot 23:30 suggested end = %s, want 00:00 (midnight rollover)", last.SuggestedEnd)
	}
}
