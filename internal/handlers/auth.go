package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/userapi/internal/middleware"
	"github.com/crucial707/userapi/internal/users"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Service *users.Service
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(r.Body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	// Missing or non-string credentials match no user.
	var email, password string
	for _, f := range fields {
		switch f.key {
		case "email":
			email, _ = stringValue(f.raw)
		case "password":
			password, _ = stringValue(f.raw)
		}
	}

	token, err := h.Service.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			JSONError(w, ErrMessageInvalidCredentials, http.StatusUnauthorized)
			return
		}
		internalError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ==========================
// Me (requires JWT middleware)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			JSONError(w, "invalid token", http.StatusUnauthorized)
			return
		}
		internalError(w, r, "get current user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
