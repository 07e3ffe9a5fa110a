package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthit/accounts-api/internal/config"
	"github.com/arthit/accounts-api/internal/mailer"
	"github.com/arthit/accounts-api/internal/model"
	"github.com/arthit/accounts-api/internal/repository"
	"github.com/arthit/accounts-api/internal/security"
	"github.com/arthit/accounts-api/internal/session"
	"github.com/arthit/accounts-api/internal/token"
)

// AuthUsecase defines the authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// LoginResult is the outcome of a successful login. The refresh token is
// returned separately so the transport layer can ship it as an HttpOnly
// cookie rather than in the response body.
type LoginResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

var (
	ErrEmailTaken          = errors.New("a user already exists with that email")
	ErrPasswordMismatch    = errors.New("passwords mismatch")
	ErrUnknownEmail        = errors.New("email is incorrect")
	ErrWrongPassword       = errors.New("password is incorrect")
	ErrEmailUnconfirmed    = errors.New("email is unconfirmed")
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrInvalidRefreshToken = errors.New("refresh token is not valid")
)

type authUsecase struct {
	userRepo repository.UserRepository
	registry session.Registry
	tokens   *token.Service
	sender   mailer.Sender
	cfg      *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	registry session.Registry,
	tokens *token.Service,
	sender mailer.Sender,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		registry: registry,
		tokens:   tokens,
		sender:   sender,
		cfg:      cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	_, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if params.Password != params.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Email:          params.Email,
		PasswordHash:   passwordHash,
		EmailConfirmed: false,
	})
	if err != nil {
		// The unique index on email catches registrations that raced
		// past the existence check above.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	if err := u.sendConfirmationEmail(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUnknownEmail
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrWrongPassword
	}

	// Unconfirmed accounts cannot log in; send a fresh confirmation
	// email so the user gets a new, unexpired link.
	if !user.EmailConfirmed {
		if err := u.sendConfirmationEmail(user); err != nil {
			return nil, err
		}

		return nil, ErrEmailUnconfirmed
	}

	accessToken, err := u.tokens.IssueAccessToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.tokens.IssueRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	u.registry.Add(refreshToken)

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *authUsecase) Refresh(_ context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrUnauthenticated
	}

	if !u.registry.Contains(refreshToken) {
		return "", ErrInvalidRefreshToken
	}

	userID, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	// Registry membership is unchanged; refresh only mints a new
	// access token.
	return u.tokens.IssueAccessToken(userID)
}

func (u *authUsecase) Logout(_ context.Context, refreshToken string) error {
	u.registry.Revoke(refreshToken)
	return nil
}

func (u *authUsecase) sendConfirmationEmail(user *model.User) error {
	emailToken, err := u.tokens.IssueEmailActionToken(user.ID.Hex())
	if err != nil {
		return err
	}

	confirmLink := fmt.Sprintf("%s/confirm/%s/%s", u.cfg.ClientURL, emailToken, user.ID.Hex())
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for registering. Please click the link below to confirm your email address:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s. If you take longer, your account will be
		deleted when you try to confirm it, and you will need to register again.</p>
	`, user.FirstName, confirmLink, confirmLink, u.cfg.EmailTokenExpiry)

	return u.sender.SendHTML([]string{user.Email}, "Confirm your email", htmlBody)
}
