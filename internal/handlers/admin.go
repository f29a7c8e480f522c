package handlers

import (
	"errors"
	"net/http"

	"github.com/avelasco/taskapi/internal/policy"
	"github.com/avelasco/taskapi/internal/utils"
)

type AdminHandler struct {
	tasks TaskStore
	gate  AdminGate
}

func NewAdminHandler(tasks TaskStore, gate AdminGate) *AdminHandler {
	return &AdminHandler{tasks: tasks, gate: gate}
}

// requireAdmin runs the role gate. A role failure is the same 401 as a
// missing token; nothing about roles leaks to the client.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	ident, ok := identity(w, r)
	if !ok {
		return false
	}

	if err := h.gate.RequireAdmin(r.Context(), ident); err != nil {
		if errors.Is(err, policy.ErrNotAuthorized) {
			utils.JSONError(w, http.StatusUnauthorized, "authentication failed")
			return false
		}
		serverError(w, r, err)
		return false
	}

	return true
}

// ListAll handles GET /admin/todo: every task from every owner.
func (h *AdminHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	tasks, err := h.tasks.ListAll(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, tasks)
}

// Delete handles DELETE /admin/todo/{id}: removes any owner's task.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteByID(r.Context(), id); err != nil {
		notFoundOrServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
