package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/models"
)

type TaskHandler struct {
	svc *board.Service
}

func NewTaskHandler(svc *board.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []models.Task
		err   error
	)
	switch {
	case r.URL.Query().Get("active") == "true":
		tasks, err = h.svc.ListActive(r.Context())
	case r.URL.Query().Get("completed") == "true":
		tasks, err = h.svc.ListCompleted(r.Context())
	default:
		tasks, err = h.svc.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	task, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateTaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.svc.Update(r.Context(), id, &req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeMessage(w, http.StatusOK, "Task updated successfully")
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

// Complete handles PATCH /api/tasks/{id}. The task to complete is named by
// "id" in the body; the path id is used when the body leaves it out.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req models.CompleteTaskRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ID != nil {
		id = *req.ID
	}

	res, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.CompleteTaskResponse{
		Message:   "Task marked as completed",
		Completed: res.Completed,
		Activated: res.Activated,
	})
}

// Reset handles POST /api/tasks/reset
func (h *TaskHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeMessage(w, http.StatusOK, "Tasks reset successfully")
}

// Board handles GET /api/board
func (h *TaskHandler) Board(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Board(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}
