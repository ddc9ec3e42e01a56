package http

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"rentalshop-backend/internal/domain"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.User.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.services.User.CreateUser(r.Context(), req.Username, req.Password, req.Name, domain.UserRole(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if claims, ok := ClaimsFromContext(r.Context()); ok && claims.UserID == id {
		writeError(w, r, fmt.Errorf("%w: cannot delete the signed-in user", domain.ErrInvalidInput))
		return
	}
	if err := h.services.User.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
