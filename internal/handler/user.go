package handler

import (
	"errors"
	"net/http"

	"github.com/arthit/accounts-api/internal/usecase"
)

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	profile, err := h.user.CurrentUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "could not find that user")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to get user")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleProtected(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "you are authorized to see this protected route")
}

func (h *Handler) handleUnprotected(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "anyone can see this unprotected route")
}
