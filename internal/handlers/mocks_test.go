package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/avelasco/taskapi/internal/middleware"
	"github.com/avelasco/taskapi/internal/models"
	"github.com/avelasco/taskapi/internal/repository"
)

type mockUserStore struct {
	createFunc         func(ctx context.Context, u models.User) (models.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (models.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return models.User{}, errors.New("not implemented")
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return models.User{}, errors.New("not implemented")
}

type mockTaskStore struct {
	createFunc             func(ctx context.Context, fields repository.TaskFields, ownerID int64) (models.Task, error)
	getByIDAndOwnerFunc    func(ctx context.Context, id, ownerID int64) (models.Task, error)
	listByOwnerFunc        func(ctx context.Context, ownerID int64) ([]models.Task, error)
	listAllFunc            func(ctx context.Context) ([]models.Task, error)
	updateFunc             func(ctx context.Context, id, ownerID int64, fields repository.TaskFields) error
	deleteByIDAndOwnerFunc func(ctx context.Context, id, ownerID int64) error
	deleteByIDFunc         func(ctx context.Context, id int64) error
}

func (m *mockTaskStore) Create(ctx context.Context, fields repository.TaskFields, ownerID int64) (models.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, fields, ownerID)
	}
	return models.Task{}, errors.New("not implemented")
}

func (m *mockTaskStore) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (models.Task, error) {
	if m.getByIDAndOwnerFunc != nil {
		return m.getByIDAndOwnerFunc(ctx, id, ownerID)
	}
	return models.Task{}, errors.New("not implemented")
}

func (m *mockTaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskStore) ListAll(ctx context.Context) ([]models.Task, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskStore) Update(ctx context.Context, id, ownerID int64, fields repository.TaskFields) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, ownerID, fields)
	}
	return errors.New("not implemented")
}

func (m *mockTaskStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	if m.deleteByIDAndOwnerFunc != nil {
		return m.deleteByIDAndOwnerFunc(ctx, id, ownerID)
	}
	return errors.New("not implemented")
}

func (m *mockTaskStore) DeleteByID(ctx context.Context, id int64) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return errors.New("not implemented")
}

type mockAdminGate struct {
	err error
}

func (m *mockAdminGate) RequireAdmin(ctx context.Context, ident middleware.Identity) error {
	return m.err
}

// ---- request helpers ----

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, userID int64, username string) *http.Request {
	ctx := middleware.ContextWithIdentity(req.Context(), middleware.Identity{
		UserID:   userID,
		Username: username,
	})
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
