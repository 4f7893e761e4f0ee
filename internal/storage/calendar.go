package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agenda/internal/core"
)

const (
	eventColumns       = `id, owner_id, title, description, date, all_day, type, color`
	appointmentColumns = `id, owner_id, title, date, start_time, end_time, description, location, event_id, color`
)

// EventPatch carries the fields of a partial calendar event update.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *core.Date
	AllDay      *bool
	Type        *string
	Color       *string
}

// AppointmentPatch carries the fields of a partial appointment update.
type AppointmentPatch struct {
	Title       *string
	Date        *core.Date
	StartTime   *string
	EndTime     *string
	Description *string
	Location    *string
	EventID     *int64
	Color       *string
}

// ListEvents returns the owner's calendar events whose date falls inside the
// range, in insertion order.
func (r *Repository) ListEvents(ctx context.Context, ownerID string, dr core.DateRange) ([]core.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM calendar_events
		 WHERE owner_id = ? AND date >= ? AND date <= ?
		 ORDER BY id ASC`,
		ownerID, dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]core.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListAllDayEvents returns only the all-day events of one day, the shape the
// daily view renders alongside the timed appointments.
func (r *Repository) ListAllDayEvents(ctx context.Context, ownerID string, day core.Date) ([]core.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM calendar_events
		 WHERE owner_id = ? AND date = ? AND all_day = 1
		 ORDER BY id ASC`,
		ownerID, day.String())
	if err != nil {
		return nil, fmt.Errorf("list all-day events: %w", err)
	}
	defer rows.Close()

	events := make([]core.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *Repository) CreateEvent(ctx context.Context, e core.CalendarEvent) (core.CalendarEvent, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO calendar_events (owner_id, title, description, date, all_day, type, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.OwnerID, e.Title, e.Description, e.Date.String(), e.AllDay, e.Type, e.Color)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("create event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("create event id: %w", err)
	}

	slog.InfoContext(ctx, "Calendar event created", "id", id, "date", e.Date.String(), "owner", e.OwnerID)
	return r.GetEvent(ctx, e.OwnerID, id)
}

func (r *Repository) GetEvent(ctx context.Context, ownerID string, id int64) (core.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM calendar_events WHERE id = ? AND owner_id = ?`, id, ownerID)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CalendarEvent{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) UpdateEvent(ctx context.Context, ownerID string, id int64, patch EventPatch) (core.CalendarEvent, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, patch.Date.String())
	}
	if patch.AllDay != nil {
		sets = append(sets, "all_day = ?")
		args = append(args, *patch.AllDay)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *patch.Type)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}
	if len(sets) == 0 {
		return r.GetEvent(ctx, ownerID, id)
	}
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE calendar_events SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.CalendarEvent{}, fmt.Errorf("update event rows: %w", err)
	} else if n == 0 {
		return core.CalendarEvent{}, ErrNotFound
	}
	return r.GetEvent(ctx, ownerID, id)
}

func (r *Repository) DeleteEvent(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_events WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete event rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAppointments returns the owner's appointments whose date falls inside
// the range, ordered by date then start time.
func (r *Repository) ListAppointments(ctx context.Context, ownerID string, dr core.DateRange) ([]core.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE owner_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, start_time ASC, id ASC`,
		ownerID, dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]core.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *Repository) CreateAppointment(ctx context.Context, a core.Appointment) (core.Appointment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (owner_id, title, date, start_time, end_time, description, location, event_id, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.OwnerID, a.Title, a.Date.String(), a.StartTime, a.EndTime,
		a.Description, a.Location, a.EventID, a.Color)
	if err != nil {
		return core.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Appointment{}, fmt.Errorf("create appointment id: %w", err)
	}

	slog.InfoContext(ctx, "Appointment created",
		"id", id, "date", a.Date.String(), "start", a.StartTime, "owner", a.OwnerID)
	return r.GetAppointment(ctx, a.OwnerID, id)
}

func (r *Repository) GetAppointment(ctx context.Context, ownerID string, id int64) (core.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ? AND owner_id = ?`, id, ownerID)
	a, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Appointment{}, ErrNotFound
	}
	return a, err
}

func (r *Repository) UpdateAppointment(ctx context.Context, ownerID string, id int64, patch AppointmentPatch) (core.Appointment, error) {
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, patch.Date.String())
	}
	if patch.StartTime != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, *patch.StartTime)
	}
	if patch.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, *patch.EndTime)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.EventID != nil {
		sets = append(sets, "event_id = ?")
		args = append(args, *patch.EventID)
	}
	if patch.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *patch.Color)
	}
	if len(sets) == 0 {
		return r.GetAppointment(ctx, ownerID, id)
	}
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return core.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Appointment{}, fmt.Errorf("update appointment rows: %w", err)
	} else if n == 0 {
		return core.Appointment{}, ErrNotFound
	}
	return r.GetAppointment(ctx, ownerID, id)
}

func (r *Repository) DeleteAppointment(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete appointment rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(s rowScanner) (core.CalendarEvent, error) {
	var (
		e    core.CalendarEvent
		date string
	)
	if err := s.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Description, &date,
		&e.AllDay, &e.Type, &e.Color); err != nil {
		return core.CalendarEvent{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("scan event date %q: %w", date, err)
	}
	e.Date = d
	return e, nil
}

func scanAppointment(s rowScanner) (core.Appointment, error) {
	var (
		a    core.Appointment
		date string
	)
	if err := s.Scan(&a.ID, &a.OwnerID, &a.Title, &date, &a.StartTime, &a.EndTime,
		&a.Description, &a.Location, &a.EventID, &a.Color); err != nil {
		return core.Appointment{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Appointment{}, fmt.Errorf("scan appointment date %q: %w", date, err)
	}
	a.Date = d
	return a, nil
}
