package handler

import (
	"errors"
	"net/http"

	"github.com/arthit/accounts-api/internal/usecase"
)

func (h *Handler) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.confirmEmail.ConfirmEmail(r.Context(), req.UserID, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(w, http.StatusBadRequest, "no user found with that ID")
		case errors.Is(err, usecase.ErrAlreadyConfirmed):
			writeError(w, http.StatusBadRequest, "email already confirmed")
		case errors.Is(err, usecase.ErrLinkExpired):
			writeError(w, http.StatusBadRequest, "link has expired and account is unconfirmed, the account was deleted, please register again")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to confirm email")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeMessage(w, http.StatusOK, "email successfully confirmed")
}
