package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/userapi/internal/users"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Service *users.Service
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.List(r.Context()))
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	input, err := decodeCreateInput(r.Body)
	if err != nil {
		var verr *users.ValidationError
		if errors.As(err, &verr) {
			JSONError(w, verr.Message, http.StatusBadRequest)
			return
		}
		writeDecodeError(w, err)
		return
	}

	user, err := h.Service.Create(r.Context(), input)
	if err != nil {
		var verr *users.ValidationError
		if errors.As(err, &verr) {
			JSONError(w, verr.Message, http.StatusBadRequest)
			return
		}
		internalError(w, r, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
