package handler

import (
	"errors"
	"net/http"

	"github.com/arthit/accounts-api/internal/usecase"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	_, err := h.auth.Register(r.Context(), usecase.RegisterParams{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "a user already exists with that email")
		case errors.Is(err, usecase.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, "passwords mismatch, could not register")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to register user")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeMessage(w, http.StatusOK, "registered successfully, check your inbox to confirm your email before the link expires")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownEmail):
			writeError(w, http.StatusBadRequest, "your email is incorrect")
		case errors.Is(err, usecase.ErrWrongPassword):
			writeError(w, http.StatusBadRequest, "your password is incorrect")
		case errors.Is(err, usecase.ErrEmailUnconfirmed):
			writeError(w, http.StatusBadRequest, "your email is unconfirmed, check your inbox for a new confirmation email")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to log in user")
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// The refresh token never appears in the response body; it travels
	// as an HttpOnly cookie scoped to the refresh-capable routes.
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    result.RefreshToken,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteStrictMode,
	})

	profile := result.User.Profile()
	writeJSON(w, http.StatusOK, loginResponse{
		UserID:         profile.UserID,
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		EmailConfirmed: profile.EmailConfirmed,
		AccessToken:    result.AccessToken,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	accessToken, err := h.auth.Refresh(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "you are not authenticated")
		case errors.Is(err, usecase.ErrInvalidRefreshToken):
			writeError(w, http.StatusForbidden, "refresh token is not valid")
		default:
			loggerFrom(r.Context()).Error().Err(err).Msg("failed to refresh access token")
			writeError(w, http.StatusForbidden, "refresh token is not valid")
		}
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	// Revoking an absent or unknown token is not an error.
	_ = h.auth.Logout(r.Context(), refreshToken)

	writeMessage(w, http.StatusOK, "you logged out successfully")
}
