package handlers

import (
	"net/http"

	"contentplanner/internal/models"
)

const tokenType = "bearer"

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, models.AuthResponse{
		AccessToken: token,
		TokenType:   tokenType,
		User:        user,
	}, http.StatusOK)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, models.AuthResponse{
		AccessToken: token,
		TokenType:   tokenType,
		User:        user,
	}, http.StatusOK)
}

// Logout only acknowledges; tokens stay valid until they expire.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"message": "Logged out successfully"}, http.StatusOK)
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	writeSuccess(w, user, http.StatusOK)
}
