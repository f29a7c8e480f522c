package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelasco/taskapi/internal/repository"
	"github.com/avelasco/taskapi/internal/utils"
)

type TaskHandler struct {
	tasks TaskStore
}

func NewTaskHandler(tasks TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

// validate enforces the field constraints: title at least 3 chars,
// description 3-100 chars, priority 1-5.
func (b taskReq) validate() string {
	if len(b.Title) < 3 {
		return "title must be at least 3 characters"
	}
	if len(b.Description) < 3 || len(b.Description) > 100 {
		return "description must be between 3 and 100 characters"
	}
	if b.Priority < 1 || b.Priority > 5 {
		return "priority must be between 1 and 5"
	}
	return ""
}

func (b taskReq) fields() repository.TaskFields {
	return repository.TaskFields{
		Title:       b.Title,
		Description: b.Description,
		Priority:    b.Priority,
		Complete:    b.Complete,
	}
}

// taskID parses the {id} URL parameter, which must be a positive integer.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(w, http.StatusUnprocessableEntity, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// List handles GET /. Only the caller's own tasks are returned.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByOwner(r.Context(), ident.UserID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, tasks)
}

// Get handles GET /todo/{id}. A task owned by someone else looks exactly
// like a task that does not exist.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByIDAndOwner(r.Context(), id, ident.UserID)
	if err != nil {
		notFoundOrServerError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, task)
}

// Create handles POST /todo. The caller becomes the owner; success is a
// bare 201.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	var req taskReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if msg := req.validate(); msg != "" {
		utils.JSONError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if _, err := h.tasks.Create(r.Context(), req.fields(), ident.UserID); err != nil {
		serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Update handles PUT /todo/{id}. All four mutable fields are replaced;
// id and owner never change.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req taskReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if msg := req.validate(); msg != "" {
		utils.JSONError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.tasks.Update(r.Context(), id, ident.UserID, req.fields()); err != nil {
		notFoundOrServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /todo/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteByIDAndOwner(r.Context(), id, ident.UserID); err != nil {
		notFoundOrServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
