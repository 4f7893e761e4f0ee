package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"agenda/internal/auth"
	"agenda/internal/core"
	"agenda/internal/services"
	"agenda/internal/storage"
)

type eventCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	AllDay      bool   `json:"allDay"`
	Type        string `json:"type"`
	Color       string `json:"color"`
}

type eventPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	AllDay      *bool   `json:"allDay"`
	Type        *string `json:"type"`
	Color       *string `json:"color"`
}

// handleMonthAgenda serves the merged month view: calendar events followed by
// appointments flattened into all-day items.
func (s *Server) handleMonthAgenda(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	year, month, err := queryYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dr, err := core.MonthRange(year, month)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	key := monthKey(owner, year, month)
	if items, ok := s.agendaCache.Get(key); ok {
		respondJSON(w, http.StatusOK, items)
		return
	}

	events, err := s.repo.ListEvents(r.Context(), owner, dr)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	appointments, err := s.repo.ListAppointments(r.Context(), owner, dr)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	items := services.BuildMonthAgenda(events, appointments)
	s.agendaCache.Set(key, items)
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var req eventCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	eventType := req.Type
	if eventType == "" {
		eventType = core.DefaultEventType
	}

	event := core.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		AllDay:      req.AllDay,
		Type:        eventType,
		Color:       req.Color,
		OwnerID:     owner,
	}
	if err := event.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateEvent(r.Context(), event)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateAgenda(owner, created.Date)
	slog.InfoContext(r.Context(), "Calendar event created", "event_id", created.ID, "date", created.Date)
	respondJSON(w, http.StatusCreated, toEventJSON(created))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req eventPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := s.repo.GetEvent(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	patch := storage.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		AllDay:      req.AllDay,
		Type:        req.Type,
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

	candidate := existing
	applyEventPatch(&candidate, patch)
	if err := candidate.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.repo.UpdateEvent(r.Context(), owner, id, patch)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	// A moved event dirties both the old and the new month view.
	s.invalidateAgenda(owner, existing.Date)
	s.invalidateAgenda(owner, updated.Date)
	respondJSON(w, http.StatusOK, toEventJSON(updated))
}

// handleDeleteAgendaItem deletes by merged-agenda id: a bare number removes a
// calendar event, an apt_ prefixed id removes the underlying appointment.
func (s *Server) handleDeleteAgendaItem(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())
	rawID := mux.Vars(r)["id"]

	if aptID, ok := services.StripAppointmentID(rawID); ok {
		appointment, err := s.repo.GetAppointment(r.Context(), owner, aptID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		if err := s.repo.DeleteAppointment(r.Context(), owner, aptID); err != nil {
			s.storeError(w, r, err)
			return
		}
		s.invalidateAgenda(owner, appointment.Date)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := s.repo.GetEvent(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if err := s.repo.DeleteEvent(r.Context(), owner, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	s.invalidateAgenda(owner, event.Date)
	w.WriteHeader(http.StatusNoContent)
}

func applyEventPatch(e *core.CalendarEvent, patch storage.EventPatch) {
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.AllDay != nil {
		e.AllDay = *patch.AllDay
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Color != nil {
		e.Color = *patch.Color
	}
}
