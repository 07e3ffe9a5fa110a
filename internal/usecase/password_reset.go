package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthit/accounts-api/internal/config"
	"github.com/arthit/accounts-api/internal/mailer"
	"github.com/arthit/accounts-api/internal/repository"
	"github.com/arthit/accounts-api/internal/security"
	"github.com/arthit/accounts-api/internal/token"
)

// PasswordResetUsecase defines the business logic for password resets.
type PasswordResetUsecase interface {
	// SendPasswordResetEmail mails a reset link to the given address.
	SendPasswordResetEmail(ctx context.Context, email string) error

	// ResetPassword replaces the user's password when the token from
	// the reset link is still valid.
	ResetPassword(ctx context.Context, userID, emailToken, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	sender   mailer.Sender
	cfg      *config.Config
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	tokens *token.Service,
	sender mailer.Sender,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		sender:   sender,
		cfg:      cfg,
	}
}

func (u *passwordResetUsecase) SendPasswordResetEmail(ctx context.Context, email string) error {
	// A missing account is reported back to the caller. That makes the
	// endpoint enumerable; kept as-is because the frontend tells the
	// user whether an email was sent.
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUnknownEmail
		}

		return err
	}

	emailToken, err := u.tokens.IssueEmailActionToken(user.ID.Hex())
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/passwordReset/%s/%s", u.cfg.ClientURL, emailToken, user.ID.Hex())
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, resetLink, resetLink, u.cfg.EmailTokenExpiry)

	return u.sender.SendHTML([]string{user.Email}, "Password Reset Request", htmlBody)
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, userID, emailToken, newPassword string) error {
	// Reset links expire along with the token embedded in them.
	if _, err := u.tokens.VerifyEmailActionToken(emailToken); err != nil {
		return ErrLinkExpired
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	return nil
}
