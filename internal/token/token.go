// Package token issues and verifies the three token classes used for
// session management: short-lived access tokens, email-action tokens
// embedded in confirmation/reset links, and long-lived refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity inside every token class.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Config holds the key material and expiry durations for the service.
type Config struct {
	AccessSecret string
	// RefreshSecret must differ from AccessSecret so that compromise of
	// one token class cannot be used to forge the other.
	RefreshSecret string
	AccessExpiry  time.Duration
	// EmailExpiry bounds the validity window of confirmation and
	// password reset links.
	EmailExpiry time.Duration
	Issuer      string
}

// Service signs and verifies tokens. It is stateless apart from its
// configuration; verification does no I/O.
type Service struct {
	cfg Config
}

// NewService creates a token Service from the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// IssueAccessToken signs a short-lived access token for the given user.
func (s *Service) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, s.cfg.AccessSecret, s.cfg.AccessExpiry)
}

// IssueEmailActionToken signs a token used in email links. It shares the
// access secret since both token classes prove "you are this user right
// now", but uses the longer email expiry.
func (s *Service) IssueEmailActionToken(userID string) (string, error) {
	return s.sign(userID, s.cfg.AccessSecret, s.cfg.EmailExpiry)
}

// IssueRefreshToken signs a refresh token for the given user. Refresh
// tokens carry no expiry claim; revocation happens through the session
// registry only.
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, s.cfg.RefreshSecret, 0)
}

// VerifyAccessToken checks signature and expiry of an access token and
// returns the embedded user ID.
func (s *Service) VerifyAccessToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, s.cfg.AccessSecret, true)
}

// VerifyEmailActionToken checks signature and expiry of an email-action
// token and returns the embedded user ID.
func (s *Service) VerifyEmailActionToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, s.cfg.AccessSecret, true)
}

// VerifyRefreshToken checks the signature of a refresh token and returns
// the embedded user ID. Expiry is not required on this token class.
func (s *Service) VerifyRefreshToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, s.cfg.RefreshSecret, false)
}

func (s *Service) sign(userID, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   s.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if expiresIn > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiresIn))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func (s *Service) verify(tokenStr, secret string, requireExpiry bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.cfg.Issuer),
	}
	if requireExpiry {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
