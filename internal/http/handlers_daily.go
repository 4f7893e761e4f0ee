package http

import (
	"log/slog"
	"net/http"

	"agenda/internal/auth"
	"agenda/internal/core"
	"agenda/internal/services"
	"agenda/internal/storage"
)

type appointmentCreateRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
	EventID     int64  `json:"eventId"`
	Color       string `json:"color"`
}

type appointmentPatchRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	EventID     *int64  `json:"eventId"`
	Color       *string `json:"color"`
}

// handleDailyView serves one day: its all-day calendar events plus every
// appointment of the day.
func (s *Server) handleDailyView(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	date, err := queryDate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing or invalid date, expected YYYY-MM-DD")
		return
	}

	events, err := s.repo.ListAllDayEvents(r.Context(), owner, date)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	dr, err := core.DayRange(date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date")
		return
	}
	appointments, err := s.repo.ListAppointments(r.Context(), owner, dr)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	resp := dailyResponse{
		Date:         date.String(),
		Events:       make([]eventJSON, 0, len(events)),
		Appointments: toAppointmentListJSON(appointments),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, toEventJSON(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDaySchedule serves the fixed half-hour slot grid for one day.
func (s *Server) handleDaySchedule(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	date, err := queryDate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing or invalid date, expected YYYY-MM-DD")
		return
	}

	dr, err := core.DayRange(date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date")
		return
	}
	appointments, err := s.repo.ListAppointments(r.Context(), owner, dr)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	schedule := services.BuildDaySchedule(date, appointments)
	respondJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var req appointmentCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	appointment := core.Appointment{
		Title:       req.Title,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Location:    req.Location,
		EventID:     req.EventID,
		Color:       req.Color,
		OwnerID:     owner,
	}
	if err := appointment.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateAppointment(r.Context(), appointment)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateAgenda(owner, created.Date)
	slog.InfoContext(r.Context(), "Appointment created",
		"appointment_id", created.ID,
		"date", created.Date,
		"start", created.StartTime)
	respondJSON(w, http.StatusCreated, toAppointmentJSON(created))
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req appointmentPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := s.repo.GetAppointment(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	patch := storage.AppointmentPatch{
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Location:    req.Location,
		EventID:     req.EventID,
		Color:       req.Color,
	}
	if req.Date != nil {
		date, err := core.ParseDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	// Validate the merged result so a partial update cannot smuggle in a
	// malformed clock pair.
	candidate := existing
	applyAppointmentPatch(&candidate, patch)
	if err := candidate.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.repo.UpdateAppointment(r.Context(), owner, id, patch)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateAgenda(owner, existing.Date)
	s.invalidateAgenda(owner, updated.Date)
	respondJSON(w, http.StatusOK, toAppointmentJSON(updated))
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	appointment, err := s.repo.GetAppointment(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if err := s.repo.DeleteAppointment(r.Context(), owner, id); err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateAgenda(owner, appointment.Date)
	w.WriteHeader(http.StatusNoContent)
}

func applyAppointmentPatch(a *core.Appointment, patch storage.AppointmentPatch) {
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.StartTime != nil {
		a.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		a.EndTime = *patch.EndTime
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Location != nil {
		a.Location = *patch.Location
	}
	if patch.EventID != nil {
		a.EventID = *patch.EventID
	}
	if patch.Color != nil {
		a.Color = *patch.Color
	}
}
