package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthit/accounts-api/internal/repository"
	"github.com/arthit/accounts-api/internal/token"
)

// ConfirmEmailUsecase defines the email confirmation use case.
type ConfirmEmailUsecase interface {
	// ConfirmEmail marks the user's email as confirmed when the token
	// from the confirmation link is still valid.
	ConfirmEmail(ctx context.Context, userID, emailToken string) error
}

var (
	ErrUserNotFound     = errors.New("no user found with that ID")
	ErrAlreadyConfirmed = errors.New("email already confirmed")
	ErrLinkExpired      = errors.New("link has expired")
)

type confirmEmailUsecase struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

// NewConfirmEmailUsecase creates a new instance of ConfirmEmailUsecase.
func NewConfirmEmailUsecase(userRepo repository.UserRepository, tokens *token.Service) ConfirmEmailUsecase {
	return &confirmEmailUsecase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (u *confirmEmailUsecase) ConfirmEmail(ctx context.Context, userID, emailToken string) error {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	_, tokenErr := u.tokens.VerifyEmailActionToken(emailToken)

	// An already confirmed account stays confirmed no matter what state
	// the link is in.
	if user.EmailConfirmed {
		return ErrAlreadyConfirmed
	}

	if tokenErr != nil {
		// The link expired before the account was confirmed. Delete the
		// unconfirmed account so a squatter cannot hold someone else's
		// email address hostage; the real owner can register again.
		if _, err := u.userRepo.DeleteUser(ctx, userID); err != nil {
			return err
		}

		return ErrLinkExpired
	}

	confirmed := true
	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		EmailConfirmed: &confirmed,
	}); err != nil {
		return err
	}

	return nil
}
