package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthit/accounts-api/internal/token"
	"github.com/arthit/accounts-api/internal/usecase"
)

// expiredEmailToken mints an email-action token that is already expired,
// signed with the same access secret as the fixture's token service.
func expiredEmailToken(t *testing.T, f *fixture, userID string) string {
	t.Helper()

	expired := token.NewService(token.Config{
		AccessSecret:  f.cfg.AccessTokenSecret,
		RefreshSecret: f.cfg.RefreshTokenSecret,
		AccessExpiry:  f.cfg.AccessTokenExpiry,
		EmailExpiry:   -time.Second,
		Issuer:        f.cfg.TokenIssuer,
	})

	tok, err := expired.IssueEmailActionToken(userID)
	require.NoError(t, err)

	return tok
}

func TestConfirmEmail_ValidToken(t *testing.T) {
	f := newFixture(t)
	confirm := usecase.NewConfirmEmailUsecase(f.repo, f.tokens)

	user, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "p1",
		ConfirmPassword: "p1",
	})
	require.NoError(t, err)

	emailToken, err := f.tokens.IssueEmailActionToken(user.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, confirm.ConfirmEmail(context.Background(), user.ID.Hex(), emailToken))

	stored, err := f.repo.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)

	// Confirming twice is idempotent in effect; the second call reports
	// the email was already confirmed.
	err = confirm.ConfirmEmail(context.Background(), user.ID.Hex(), emailToken)
	assert.ErrorIs(t, err, usecase.ErrAlreadyConfirmed)
}

func TestConfirmEmail_ExpiredTokenDeletesUnconfirmedUser(t *testing.T) {
	f := newFixture(t)
	confirm := usecase.NewConfirmEmailUsecase(f.repo, f.tokens)

	user, err := f.auth.Register(context.Background(), usecase.RegisterParams{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "p1",
		ConfirmPassword: "p1",
	})
	require.NoError(t, err)

	err = confirm.ConfirmEmail(context.Background(), user.ID.Hex(), expiredEmailToken(t, f, user.ID.Hex()))
	assert.ErrorIs(t, err, usecase.ErrLinkExpired)

	// The unconfirmed account no longer exists.
	_, err = f.repo.GetUser(context.Background(), user.ID.Hex())
	assert.Error(t, err)
}

func TestConfirmEmail_ExpiredTokenOnConfirmedUser(t *testing.T) {
	f := newFixture(t)
	confirm := usecase.NewConfirmEmailUsecase(f.repo, f.tokens)

	user := f.registerConfirmedUser(t, "ada@example.com", "p1")

	err := confirm.ConfirmEmail(context.Background(), user.ID.Hex(), expiredEmailToken(t, f, user.ID.Hex()))
	assert.ErrorIs(t, err, usecase.ErrAlreadyConfirmed)

	// The confirmed account is untouched.
	stored, err := f.repo.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)
}

func TestConfirmEmail_UnknownUser(t *testing.T) {
	f := newFixture(t)
	confirm := usecase.NewConfirmEmailUsecase(f.repo, f.tokens)

	emailToken, err := f.tokens.IssueEmailActionToken("64a000000000000000000000")
	require.NoError(t, err)

	err = confirm.ConfirmEmail(context.Background(), "64a000000000000000000000", emailToken)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
