// Package client is the HTTP consumer of the remote trading platform API.
// It implements session.Backend: JSON over HTTPS, one POST per operation,
// the opaque session token echoed in every authenticated request body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-session"
)

const (
	defaultLoginPath       = "/login"
	defaultRegisterPath    = "/register"
	defaultUserTypePath    = "/get-user-type"
	defaultUsernamePath    = "/get-username"
	defaultEmailPath       = "/get-email"
	defaultProfileIconPath = "/get-profile-icon"
	defaultDeleteUserPath  = "/delete-user"
)

// ErrLoginRejected is returned when the backend refuses a credential
// exchange. Distinct from session.ErrAuthRejected, which means an already
// issued token stopped working.
var ErrLoginRejected = errors.New("backend rejected the credentials", errors.CategoryAuth).
	WithTextCode("SESSION_LOGIN_REJECTED").
	WithCode(errors.CodeUnauthorized)

// ErrRegistrationRejected is returned when the backend refuses to create
// an account.
var ErrRegistrationRejected = errors.New("backend rejected the registration", errors.CategoryOperation).
	WithTextCode("SESSION_REGISTRATION_REJECTED").
	WithCode(errors.CodeConflict)

// Config holds the backend endpoints. Only BaseURL is required; individual
// paths exist so tests and staging environments can override them.
type Config struct {
	BaseURL string

	LoginPath       string
	RegisterPath    string
	UserTypePath    string
	UsernamePath    string
	EmailPath       string
	ProfileIconPath string
	DeleteUserPath  string

	HTTPClient *http.Client
	Logger     session.Logger
}

// Client talks to the remote API. Safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     session.Logger
}

var _ session.Backend = (*Client)(nil)

// New creates an API client for the given configuration.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.RegisterPath == "" {
		cfg.RegisterPath = defaultRegisterPath
	}
	if cfg.UserTypePath == "" {
		cfg.UserTypePath = defaultUserTypePath
	}
	if cfg.UsernamePath == "" {
		cfg.UsernamePath = defaultUsernamePath
	}
	if cfg.EmailPath == "" {
		cfg.EmailPath = defaultEmailPath
	}
	if cfg.ProfileIconPath == "" {
		cfg.ProfileIconPath = defaultProfileIconPath
	}
	if cfg.DeleteUserPath == "" {
		cfg.DeleteUserPath = defaultDeleteUserPath
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FromAppConfig builds a client from the env-driven configuration.
func FromAppConfig(cfg session.Config) *Client {
	return New(Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	})
}

// apiResponse covers every endpoint; unused fields stay empty. The two
// client codebases this replaces disagreed on the casing of the success
// status, so matching is case-insensitive throughout.
type apiResponse struct {
	Status       string `json:"status"`
	SessionToken string `json:"session_token,omitempty"`
	UserType     string `json:"user_type,omitempty"`
	Value        string `json:"value,omitempty"`
}

func (r apiResponse) success() bool {
	return strings.EqualFold(r.Status, "success")
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := LoginPayload{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return "", wrapValidation(err, "invalid login payload")
	}

	resp, err := c.post(ctx, c.config.LoginPath, payload)
	if err != nil {
		return "", err
	}

	if !resp.success() {
		return "", ErrLoginRejected.WithMetadata(map[string]any{
			"status": resp.Status,
		})
	}

	if resp.SessionToken == "" {
		return "", errors.New("login response missing session token", errors.CategoryOperation).
			WithTextCode(session.TextCodeTransport)
	}

	return resp.SessionToken, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, email, password, userType string) error {
	payload := RegisterPayload{
		Username: username,
		Email:    email,
		Password: password,
		UserType: userType,
	}
	if err := payload.Validate(); err != nil {
		return wrapValidation(err, "invalid registration payload")
	}

	resp, err := c.post(ctx, c.config.RegisterPath, payload)
	if err != nil {
		return err
	}

	if !resp.success() {
		return ErrRegistrationRejected.WithMetadata(map[string]any{
			"status": resp.Status,
		})
	}

	return nil
}

// FetchUserType returns the raw user_type string for the token.
func (c *Client) FetchUserType(ctx context.Context, token string) (string, error) {
	resp, err := c.authenticated(ctx, c.config.UserTypePath, token)
	if err != nil {
		return "", err
	}
	return resp.UserType, nil
}

// FetchUsername returns the account's display name.
func (c *Client) FetchUsername(ctx context.Context, token string) (string, error) {
	resp, err := c.authenticated(ctx, c.config.UsernamePath, token)
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

// FetchEmail returns the account's email address.
func (c *Client) FetchEmail(ctx context.Context, token string) (string, error) {
	resp, err := c.authenticated(ctx, c.config.EmailPath, token)
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

// FetchProfileIcon returns the account's profile icon URL.
func (c *Client) FetchProfileIcon(ctx context.Context, token string) (string, error) {
	resp, err := c.authenticated(ctx, c.config.ProfileIconPath, token)
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

// DeleteUser removes the account behind the token.
func (c *Client) DeleteUser(ctx context.Context, token string) error {
	_, err := c.authenticated(ctx, c.config.DeleteUserPath, token)
	return err
}

// authenticated posts a token-bearing request and maps a non-success
// status to session.ErrAuthRejected, the signal that forces a logout.
func (c *Client) authenticated(ctx context.Context, path, token string) (apiResponse, error) {
	resp, err := c.post(ctx, path, tokenPayload{SessionToken: token})
	if err != nil {
		return apiResponse{}, err
	}

	if !resp.success() {
		return apiResponse{}, session.ErrAuthRejected.WithMetadata(map[string]any{
			"endpoint": path,
			"status":   resp.Status,
		})
	}

	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apiResponse{}, session.WrapTransport(err, "failed to encode request")
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apiResponse{}, session.WrapTransport(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request to %s failed: %v", path, err)
		return apiResponse{}, session.WrapTransport(err, "request failed")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return apiResponse{}, session.WrapTransport(err, "failed to read response")
	}

	var decoded apiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return apiResponse{}, session.WrapTransport(err, "failed to decode response").
			WithMetadata(map[string]any{
				"endpoint":    path,
				"http_status": res.StatusCode,
			})
	}

	return decoded, nil
}

type tokenPayload struct {
	SessionToken string `json:"session_token"`
}

func wrapValidation(err error, msg string) error {
	return errors.Wrap(err, errors.CategoryValidation, msg).
		WithCode(errors.CodeBadRequest)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
