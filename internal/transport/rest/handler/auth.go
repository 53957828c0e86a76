package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"screener/internal/model"
	"screener/internal/service"
)

// Authenticator issues admin tokens
type Authenticator interface {
	Login(username, password string) (*model.LoginResponse, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc Authenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc Authenticator) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if errors.Is(err, service.ErrLoginDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
