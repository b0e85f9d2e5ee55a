package http

import (
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[loginRequest](w, r)
	if !ok {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, "login")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[registerRequest](w, r)
	if !ok {
		return
	}
	if req.Email == "" || req.Password == "" || req.OrganizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id, email and password are required")
		return
	}

	u, err := h.Auth.Register(r.Context(), req.OrganizationID, req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		writeDomainError(w, err, "register")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Refresh handles POST /api/v1/auth/refresh. The presented refresh token is
// spent and a rotated pair is returned.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[refreshRequest](w, r)
	if !ok {
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	result, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeDomainError(w, err, "refresh")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout. Revokes every refresh token of
// the authenticated user.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Auth.Logout(r.Context(), actor.ID); err != nil {
		writeDomainError(w, err, "logout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
