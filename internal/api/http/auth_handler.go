package http

import (
	"net/http"

	"rentalshop-backend/internal/logger"
)

// Login exchanges credentials for an access token
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	token, expiresAt, user, err := h.services.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "User logged in", "userID", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, ExpiresAt: expiresAt, User: user})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Settings returns the shop identity printed on invoices
func (h *Handlers) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store)
}
