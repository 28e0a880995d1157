package http

import (
	"net/http"

	"docs-approval-backend/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /user/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := required(values, "username", "password"); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), values.Get("username"), values.Get("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
