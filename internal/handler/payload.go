package handler

// Request and response payloads for the HTTP API.

type registerRequest struct {
	FirstName       string `json:"firstName"       validate:"required"`
	LastName        string `json:"lastName"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	UserID         string `json:"userid"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	EmailConfirmed bool   `json:"confirmedEmail"`
	AccessToken    string `json:"accessToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type confirmEmailRequest struct {
	UserID string `json:"userid" validate:"required"`
	Token  string `json:"token"  validate:"required"`
}

type sendPasswordResetEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetRequest struct {
	UserID      string `json:"userid"      validate:"required"`
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
