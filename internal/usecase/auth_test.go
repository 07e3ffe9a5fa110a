package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthit/accounts-api/internal/config"
	"github.com/arthit/accounts-api/internal/mailer"
	"github.com/arthit/accounts-api/internal/model"
	"github.com/arthit/accounts-api/internal/repository"
	"github.com/arthit/accounts-api/internal/session"
	"github.com/arthit/accounts-api/internal/token"
	"github.com/arthit/accounts-api/internal/usecase"
)

type fixture struct {
	repo     *repository.MemoryUserRepository
	registry *session.MemoryRegistry
	tokens   *token.Service
	sender   *mailer.MemorySender
	cfg      *config.Config
	auth     usecase.AuthUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		ClientURL:          "http://localhost:3000",
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenExpiry:  time.Minute,
		EmailTokenExpiry:   15 * time.Minute,
		TokenIssuer:        "accounts-api-test",
	}

	f := &fixture{
		repo:     repository.NewMemoryUserRepository(),
		registry: session.NewMemoryRegistry(),
		tokens: token.NewService(token.Config{
			AccessSecret:  cfg.AccessTokenSecret,
			RefreshSecret: cfg.RefreshTokenSecret,
			AccessExpiry:  cfg.AccessTokenExpiry,
			EmailExpiry:   cfg.EmailTokenExpiry,
			Issuer:        cfg.TokenIssuer,
		}),
		sender: mailer.NewMemorySender(),
		cfg:    cfg,
	}

	f.auth = usecase.NewAuthUsecase(f.repo, f.registry, f.tokens, f.sender, f.cfg)

	return f
}

func (f *fixture) registerConfirmedUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	user, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)

	confirmed := true
	user, err = f.repo.UpdateUser(context.Background(), user.ID.Hex(), repository.UpdateUserParams{
		EmailConfirmed: &confirmed,
	})
	require.NoError(t, err)

	return user
}

func TestRegister_CreatesUnconfirmedUserAndSendsEmail(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "p1",
		ConfirmPassword: "p1",
	})
	require.NoError(t, err)

	assert.False(t, user.EmailConfirmed)
	assert.NotEqual(t, "p1", user.PasswordHash)

	emails := f.sender.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, []string{"ada@example.com"}, emails[0].To)
	assert.Contains(t, emails[0].HTMLBody, "/confirm/")
	assert.Contains(t, emails[0].HTMLBody, user.ID.Hex())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.registerConfirmedUser(t, "ada@example.com", "p1")

	_, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Imposter",
		LastName:        "User",
		Email:           "ada@example.com",
		Password:        "p2",
		ConfirmPassword: "p2",
	})
	assert.ErrorIs(t, err, usecase.ErrEmailTaken)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "p1",
		ConfirmPassword: "p2",
	})
	assert.ErrorIs(t, err, usecase.ErrPasswordMismatch)

	// No user record may be created on a failed registration.
	_, err = f.repo.GetUserByEmail(context.Background(), "ada@example.com")
	assert.Error(t, err)
	assert.Empty(t, f.sender.Emails())
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "nobody@example.com",
		Password: "p1",
	})
	assert.ErrorIs(t, err, usecase.ErrUnknownEmail)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.registerConfirmedUser(t, "ada@example.com", "p1")

	_, err := f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, usecase.ErrWrongPassword)
}

func TestLogin_UnconfirmedEmailResendsConfirmation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "p1",
		ConfirmPassword: "p1",
	})
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "ada@example.com",
		Password: "p1",
	})
	assert.ErrorIs(t, err, usecase.ErrEmailUnconfirmed)

	// One confirmation email from registration, one from the login attempt.
	assert.Len(t, f.sender.Emails(), 2)
}

func TestLogin_IssuesTokensAndRegistersRefreshToken(t *testing.T) {
	f := newFixture(t)
	user := f.registerConfirmedUser(t, "ada@example.com", "p1")

	result, err := f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "ada@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	userID, err := f.tokens.VerifyAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)

	assert.True(t, f.registry.Contains(result.RefreshToken))
}

func TestRefresh_NoToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestRefresh_TokenNotInRegistry(t *testing.T) {
	f := newFixture(t)

	tok, err := f.tokens.IssueRefreshToken("user-123")
	require.NoError(t, err)

	_, err = f.auth.Refresh(context.Background(), tok)
	assert.ErrorIs(t, err, usecase.ErrInvalidRefreshToken)
}

func TestRefresh_RegisteredButUnverifiableToken(t *testing.T) {
	f := newFixture(t)

	f.registry.Add("garbage-token")

	_, err := f.auth.Refresh(context.Background(), "garbage-token")
	assert.ErrorIs(t, err, usecase.ErrInvalidRefreshToken)
}

func TestRefresh_MintsNewAccessToken(t *testing.T) {
	f := newFixture(t)
	user := f.registerConfirmedUser(t, "ada@example.com", "p1")

	result, err := f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "ada@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	accessToken, err := f.auth.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	userID, err := f.tokens.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)

	// Refreshing leaves registry membership unchanged.
	assert.True(t, f.registry.Contains(result.RefreshToken))
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	f.registerConfirmedUser(t, "ada@example.com", "p1")

	result, err := f.auth.Login(context.Background(), usecase.LoginParams{
		Email:    "ada@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(context.Background(), result.RefreshToken))

	_, err = f.auth.Refresh(context.Background(), result.RefreshToken)
	assert.ErrorIs(t, err, usecase.ErrInvalidRefreshToken)
}

func TestLogout_AbsentTokenIsNotAnError(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.auth.Logout(context.Background(), "never-seen"))
}
