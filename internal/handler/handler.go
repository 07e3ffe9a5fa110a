// Package handler exposes the auth flows over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/arthit/accounts-api/internal/config"
	"github.com/arthit/accounts-api/internal/token"
	"github.com/arthit/accounts-api/internal/usecase"
)

// refreshCookiePath scopes the refresh cookie so browsers only ever send
// it to the refresh-capable routes, never to the rest of the API.
const refreshCookiePath = "/refreshEnabled"

const refreshCookieName = "refreshToken"

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	auth          usecase.AuthUsecase
	confirmEmail  usecase.ConfirmEmailUsecase
	passwordReset usecase.PasswordResetUsecase
	user          usecase.UserUsecase
	tokens        *token.Service
	cfg           *config.Config
	validator     *requestValidator
}

// New creates a Handler wired to the given use cases.
func New(
	auth usecase.AuthUsecase,
	confirmEmail usecase.ConfirmEmailUsecase,
	passwordReset usecase.PasswordResetUsecase,
	user usecase.UserUsecase,
	tokens *token.Service,
	cfg *config.Config,
) *Handler {
	return &Handler{
		auth:          auth,
		confirmEmail:  confirmEmail,
		passwordReset: passwordReset,
		user:          user,
		tokens:        tokens,
		cfg:           cfg,
		validator:     newRequestValidator(),
	}
}

// Router builds the HTTP router for the service.
func (h *Handler) Router(logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.ClientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/confirmEmail", h.handleConfirmEmail)
	r.Post("/sendPasswordResetEmail", h.handleSendPasswordResetEmail)
	r.Post("/passwordReset", h.handlePasswordReset)

	// The refresh cookie is only sent to routes under this prefix.
	r.Route(refreshCookiePath, func(r chi.Router) {
		r.Get("/refresh", h.handleRefresh)
		r.Get("/logout", h.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(verifyAccessToken(h.tokens))
		r.Get("/getUser", h.handleGetUser)
		r.Get("/protected", h.handleProtected)
	})

	r.Get("/unprotected", h.handleUnprotected)

	return r
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if msg := h.validator.check(payload); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
