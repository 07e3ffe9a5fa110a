// Package client is a Go client for the accounts API. It keeps the
// session state a browser frontend would keep: the current access token,
// attached as a bearer credential, and the refresh cookie, held in a
// cookie jar and sent only to the refresh-capable routes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
)

// ErrSessionExpired is returned when the access token could not be
// refreshed. All local session state has been cleared and the caller
// should treat the user as logged out.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Profile is the user profile returned by the API.
type Profile struct {
	UserID         string `json:"userid"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"confirmedEmail"`
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	UserID         string `json:"userid"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	EmailConfirmed bool   `json:"confirmedEmail"`
	AccessToken    string `json:"accessToken"`
}

// Client talks to the accounts API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
}

// New creates a Client for the API at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Jar: jar},
	}, nil
}

// AccessToken returns the access token from the last successful login or
// refresh, or "" when logged out.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) setAccessToken(tok string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = tok
}

// Register creates a new account. The API sends a confirmation email to
// the given address.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password, confirmPassword string) error {
	body := map[string]string{
		"firstName":       firstName,
		"lastName":        lastName,
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}

	return c.postJSON(ctx, "/register", body, nil)
}

// Login authenticates and stores the access token and refresh cookie.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResult
	if err := c.postJSON(ctx, "/login", body, &result); err != nil {
		return nil, err
	}

	c.setAccessToken(result.AccessToken)

	return &result, nil
}

// CurrentUser fetches the profile of the logged-in user. When the access
// token is rejected it attempts exactly one refresh and retries; if the
// refresh fails too, local session state is cleared and ErrSessionExpired
// is returned.
func (c *Client) CurrentUser(ctx context.Context) (*Profile, error) {
	var profile Profile

	err := c.getAuthorized(ctx, "/getUser", &profile)
	if err == nil {
		return &profile, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil {
		c.clearSession()
		return nil, ErrSessionExpired
	}

	if err := c.getAuthorized(ctx, "/getUser", &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Refresh exchanges the refresh cookie for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	var result struct {
		AccessToken string `json:"accessToken"`
	}

	if err := c.do(ctx, http.MethodGet, "/refreshEnabled/refresh", nil, false, &result); err != nil {
		return err
	}

	c.setAccessToken(result.AccessToken)

	return nil
}

// Logout revokes the refresh token server-side and clears local state.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/refreshEnabled/logout", nil, false, nil)
	c.clearSession()
	return err
}

// ConfirmEmail confirms the account using a token from an email link.
func (c *Client) ConfirmEmail(ctx context.Context, userID, token string) error {
	body := map[string]string{
		"userid": userID,
		"token":  token,
	}

	return c.postJSON(ctx, "/confirmEmail", body, nil)
}

// SendPasswordResetEmail asks the API to mail a password reset link.
func (c *Client) SendPasswordResetEmail(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/sendPasswordResetEmail", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using a token from an email link.
func (c *Client) ResetPassword(ctx context.Context, userID, token, newPassword string) error {
	body := map[string]string{
		"userid":      userID,
		"token":       token,
		"newPassword": newPassword,
	}

	return c.postJSON(ctx, "/passwordReset", body, nil)
}

func (c *Client) clearSession() {
	c.setAccessToken("")
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, false, out)
}

func (c *Client) getAuthorized(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, true, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, authorized bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)

		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Error,
		}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}
