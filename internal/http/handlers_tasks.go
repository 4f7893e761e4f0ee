package http

import (
	"log/slog"
	"net/http"
	"strings"

	"agenda/internal/auth"
	"agenda/internal/core"
	"agenda/internal/storage"
)

type taskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	List        string `json:"list"`
	Completed   bool   `json:"completed"`
}

type taskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
	List        *string `json:"list"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	tasks, err := s.repo.ListTasks(r.Context(), owner)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskListJSON(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var req taskCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	due, err := core.ParseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid due date, expected YYYY-MM-DD")
		return
	}

	task := core.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     due,
		List:        core.TaskList(req.List),
		OwnerID:     owner,
	}
	if err := task.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateTask(r.Context(), task)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Task created", "task_id", created.ID, "list", created.List)
	respondJSON(w, http.StatusCreated, toTaskJSON(created))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	task, err := s.repo.GetTask(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskJSON(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req taskPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondError(w, http.StatusBadRequest, core.ErrEmptyTitle.Error())
		return
	}

	patch := storage.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		due, err := core.ParseDate(*req.DueDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid due date, expected YYYY-MM-DD")
			return
		}
		patch.DueDate = &due
	}
	if req.List != nil {
		list := core.TaskList(*req.List)
		if err := list.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.List = &list
	}

	updated, err := s.repo.UpdateTask(r.Context(), owner, id, patch)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskJSON(updated))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.repo.DeleteTask(r.Context(), owner, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
