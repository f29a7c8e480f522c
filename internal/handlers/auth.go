package handlers

import (
	"errors"
	"net/http"

	"github.com/avelasco/taskapi/internal/auth"
	"github.com/avelasco/taskapi/internal/models"
	"github.com/avelasco/taskapi/internal/repository"
	"github.com/avelasco/taskapi/internal/utils"
)

type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenService
}

func NewAuthHandler(users UserStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type createUserReq struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateUser handles POST /auth/create_user. Success is a bare 201.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Username == "" {
		utils.JSONError(w, http.StatusUnprocessableEntity, "email and username required")
		return
	}
	if len(req.Password) < 6 {
		utils.JSONError(w, http.StatusUnprocessableEntity, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, r, err)
		return
	}

	_, err = h.users.Create(r.Context(), models.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hash,
		Role:           string(models.ParseRole(req.Role)),
		IsActive:       true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			utils.JSONError(w, http.StatusConflict, "email or username already exists")
			return
		}
		serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Token handles POST /auth/token. Credentials arrive form-encoded
// (username, password); success is {access_token, token_type:"bearer"}.
// Unknown user and wrong password are the same 401.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		utils.JSONError(w, http.StatusUnprocessableEntity, "username and password required")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		serverError(w, r, err)
		return
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	token, err := h.tokens.Issue(user.Username, user.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}

	utils.NoCache(w)
	utils.JSON(w, http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}
