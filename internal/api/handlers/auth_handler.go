package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rdlima/go-auth-api/internal/auth"
	"github.com/rdlima/go-auth-api/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, logout and current-user requests.
type AuthHandler struct {
	service services.UserServiceProvider
	codec   *auth.Codec
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, codec *auth.Codec) *AuthHandler {
	return &AuthHandler{service: service, codec: codec}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication and token issuance. The error response
// is identical for an unknown email and a wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.codec.Encode(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// Me returns the profile of the authenticated user resolved by the auth
// middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	if user == nil {
		log.Error().Msg("Could not retrieve user from request context")
		respondError(w, http.StatusInternalServerError, "Could not retrieve user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
}

// Logout acknowledges a logout. Tokens are stateless so there is nothing to
// revoke server-side; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
