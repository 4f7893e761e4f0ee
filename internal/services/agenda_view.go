// Package services contains the read-side projections built on top of the
// stored entities: the merged month agenda, the monthly statement and the
// daily schedule grid.
package services

import (
	"strconv"
	"strings"

	"agenda/internal/core"
)

// ItemKind discriminates the origin of a merged agenda item. It is the
// authoritative marker; the "apt_" id prefix is kept on the wire only for
// clients that still rely on it.
type ItemKind string

const (
	KindEvent       ItemKind = "EVENT"
	KindAppointment ItemKind = "APPOINTMENT"
)

// AppointmentIDPrefix tags appointment-origin items in a flattened agenda.
const AppointmentIDPrefix = "apt_"

// DefaultAppointmentColor is used when an appointment has no explicit color.
const DefaultAppointmentColor = "#BAE1FF"

// AgendaItem is a display-normalized projection of either a CalendarEvent
// or an Appointment.
type AgendaItem struct {
	ID       string   `json:"id"`
	SourceID int64    `json:"-"`
	Title    string   `json:"title"`
	Date     string   `json:"date"` // YYYY-MM-DD
	AllDay   bool     `json:"allDay"`
	Type     string   `json:"type"`
	Color    *string  `json:"color"`
	Kind     ItemKind `json:"kind"`
}

// BuildMonthAgenda merges calendar events and appointments into one list:
// all events first, then all appointments, no further sort. Appointments are
// forced all-day so they render as a single day-cell entry, titled
// "HH:MM Title" and tagged with the apt_ prefix.
func BuildMonthAgenda(events []core.CalendarEvent, appointments []core.Appointment) []AgendaItem {
	items := make([]AgendaItem, 0, len(events)+len(appointments))

	for _, e := range events {
		items = append(items, AgendaItem{
			ID:       strconv.FormatInt(e.ID, 10),
			SourceID: e.ID,
			Title:    e.Title,
			Date:     e.Date.String(),
			AllDay:   e.AllDay,
			Type:     e.Type,
			Color:    optionalColor(e.Color),
			Kind:     KindEvent,
		})
	}

	for _, a := range appointments {
		color := a.Color
		if color == "" {
			color = DefaultAppointmentColor
		}
		items = append(items, AgendaItem{
			ID:       AppointmentIDPrefix + strconv.FormatInt(a.ID, 10),
			SourceID: a.ID,
			Title:    a.StartTime + " " + a.Title,
			Date:     a.Date.String(),
			AllDay:   true,
			Type:     string(KindAppointment),
			Color:    &color,
			Kind:     KindAppointment,
		})
	}

	return items
}

// StripAppointmentID recovers the underlying appointment id from a prefixed
// agenda item id. The second return reports whether the id carried the prefix.
func StripAppointmentID(id string) (int64, bool) {
	raw, ok := strings.CutPrefix(id, AppointmentIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func optionalColor(c string) *string {
	if c == "" {
		return nil
	}
	return &c
}
