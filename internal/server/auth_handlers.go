package server

import (
	"encoding/json"
	"net/http"

	"github.com/mmynk/divvy/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changeUsernameRequest struct {
	Username string `json:"username"`
}

// handleRegister serves POST /auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	session, err := s.accounts.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// handleLogin serves POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	session, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handleMe serves GET /auth/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.Me(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleChangeUsername serves PATCH /users/me.
func (s *Server) handleChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req changeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := s.accounts.ChangeUsername(r.Context(), GetUserID(r.Context()), req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleSearchUsers serves GET /users?email=, the member search behind
// the invite flow.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("email")
	if fragment == "" {
		writeError(w, http.StatusBadRequest, "Email query is required")
		return
	}

	users, err := s.accounts.SearchUsers(r.Context(), fragment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []*models.Member{}
	}

	writeJSON(w, http.StatusOK, users)
}
