package handler

import (
	"errors"
	"net/http"

	"github.com/arthit/accounts-api/internal/usecase"
)

func (h *Handler) handleSendPasswordResetEmail(w http.ResponseWriter, r *http.Request) {
	var req sendPasswordResetEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.passwordReset.SendPasswordResetEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownEmail):
			writeError(w, http.StatusBadRequest, "no account was found linked to that email")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to send password reset email")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeMessage(w, http.StatusOK, "an email containing instructions on how to reset your password has been sent")
}

func (h *Handler) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.passwordReset.ResetPassword(r.Context(), req.UserID, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrLinkExpired):
			writeError(w, http.StatusBadRequest, "this link has expired")
		case errors.Is(err, usecase.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "invalid user ID provided")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to reset password")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeMessage(w, http.StatusOK, "password successfully updated")
}
