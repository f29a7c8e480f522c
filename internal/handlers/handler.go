package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/avelasco/taskapi/internal/auth"
	"github.com/avelasco/taskapi/internal/middleware"
	"github.com/avelasco/taskapi/internal/models"
	"github.com/avelasco/taskapi/internal/repository"
	"github.com/avelasco/taskapi/internal/slogx"
	"github.com/avelasco/taskapi/internal/utils"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// TaskStore is the slice of the task repository the handlers need.
type TaskStore interface {
	Create(ctx context.Context, fields repository.TaskFields, ownerID int64) (models.Task, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (models.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, id, ownerID int64, fields repository.TaskFields) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error
	DeleteByID(ctx context.Context, id int64) error
}

// AdminGate decides whether the caller may use the admin endpoints.
type AdminGate interface {
	RequireAdmin(ctx context.Context, ident middleware.Identity) error
}

type Handler struct {
	Auth  *AuthHandler
	Tasks *TaskHandler
	Admin *AdminHandler
}

func NewHandler(users UserStore, tasks TaskStore, gate AdminGate, tokens *auth.TokenService) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(users, tokens),
		Tasks: NewTaskHandler(tasks),
		Admin: NewAdminHandler(tasks, gate),
	}
}

// identity pulls the authenticated caller out of the request context.
// The authenticator always runs first on protected routes, so a miss
// here means a wiring bug, answered with a plain 401.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "authentication failed")
	}
	return ident, ok
}

// serverError logs the cause and answers with an opaque 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	utils.JSONError(w, http.StatusInternalServerError, "internal error")
}

// notFoundOrServerError maps repository absence to 404 and anything else
// to an opaque 500.
func notFoundOrServerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "task not found")
		return
	}
	serverError(w, r, err)
}
