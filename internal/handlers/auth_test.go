package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avelasco/taskapi/internal/auth"
	"github.com/avelasco/taskapi/internal/models"
	"github.com/avelasco/taskapi/internal/repository"
)

func testTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret-test-secret-test-sec", 20*time.Minute)
}

func TestCreateUser_Success(t *testing.T) {
	var created models.User
	users := &mockUserStore{
		createFunc: func(ctx context.Context, u models.User) (models.User, error) {
			created = u
			u.ID = 1
			return u, nil
		},
	}
	h := NewAuthHandler(users, testTokens())

	req := jsonRequest(t, http.MethodPost, "/auth/create_user", map[string]any{
		"email":      "alice@example.com",
		"username":   "alice",
		"first_name": "Alice",
		"last_name":  "Smith",
		"password":   "secret123",
		"role":       "user",
	})
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Empty(t, rec.Body.String(), "creation response body is empty")

	require.Equal(t, "alice", created.Username)
	require.Equal(t, "user", created.Role)
	require.True(t, created.IsActive)
	require.NotEqual(t, "secret123", created.HashedPassword, "plaintext must never be stored")
	require.True(t, auth.VerifyPassword("secret123", created.HashedPassword))
}

func TestCreateUser_RoleDefaulting(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"admin kept", "admin", "admin"},
		{"admin case-insensitive", "Admin", "admin"},
		{"unknown role becomes user", "gardener", "user"},
		{"empty role becomes user", "", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created models.User
			users := &mockUserStore{
				createFunc: func(ctx context.Context, u models.User) (models.User, error) {
					created = u
					return u, nil
				},
			}
			h := NewAuthHandler(users, testTokens())

			req := jsonRequest(t, http.MethodPost, "/auth/create_user", map[string]any{
				"email":    "alice@example.com",
				"username": "alice",
				"password": "secret123",
				"role":     tt.role,
			})
			rec := httptest.NewRecorder()

			h.CreateUser(rec, req)

			require.Equal(t, http.StatusCreated, rec.Code)
			require.Equal(t, tt.want, created.Role)
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	users := &mockUserStore{
		createFunc: func(ctx context.Context, u models.User) (models.User, error) {
			return models.User{}, repository.ErrDuplicateUser
		},
	}
	h := NewAuthHandler(users, testTokens())

	req := jsonRequest(t, http.MethodPost, "/auth/create_user", map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"username": "alice", "password": "secret123"}},
		{"missing username", map[string]any{"email": "a@b.c", "password": "secret123"}},
		{"short password", map[string]any{"email": "a@b.c", "username": "alice", "password": "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockUserStore{}, testTokens())

			req := jsonRequest(t, http.MethodPost, "/auth/create_user", tt.body)
			rec := httptest.NewRecorder()

			h.CreateUser(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestCreateUser_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockUserStore{}, testTokens())

	req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestToken_Success(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	users := &mockUserStore{
		findByUsernameFunc: func(ctx context.Context, username string) (models.User, error) {
			require.Equal(t, "alice", username)
			return models.User{ID: 42, Username: "alice", HashedPassword: hash, Role: "user", IsActive: true}, nil
		},
	}
	tokens := testTokens()
	h := NewAuthHandler(users, tokens)

	rec := httptest.NewRecorder()
	h.Token(rec, formRequest(t, url.Values{"username": {"alice"}, "password": {"secret123"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)

	claims, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, int64(42), claims.UserID)
}

func TestToken_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	users := &mockUserStore{
		findByUsernameFunc: func(ctx context.Context, username string) (models.User, error) {
			return models.User{ID: 42, Username: "alice", HashedPassword: hash}, nil
		},
	}
	h := NewAuthHandler(users, testTokens())

	rec := httptest.NewRecorder()
	h.Token(rec, formRequest(t, url.Values{"username": {"alice"}, "password": {"wrong"}}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_UnknownUser(t *testing.T) {
	users := &mockUserStore{
		findByUsernameFunc: func(ctx context.Context, username string) (models.User, error) {
			return models.User{}, repository.ErrNotFound
		},
	}
	h := NewAuthHandler(users, testTokens())

	rec := httptest.NewRecorder()
	h.Token(rec, formRequest(t, url.Values{"username": {"ghost"}, "password": {"whatever"}}))

	// Same 401 as a wrong password: no existence disclosure.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockUserStore{}, testTokens())

	tests := []struct {
		name   string
		values url.Values
	}{
		{"no username", url.Values{"password": {"secret123"}}},
		{"no password", url.Values{"username": {"alice"}}},
		{"empty form", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Token(rec, formRequest(t, tt.values))
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}
