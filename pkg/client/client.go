// Package client is a Go client for the CoreJob REST API. It attaches the
// stored bearer token to every request and clears the session on 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gilanghuda/corejob-backend/app/models"
)

// APIError is the normalized form of every non-2xx response.
type APIError struct {
	Message string
	Status  int
	Payload json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("corejob api: %d %s", e.Status, e.Message)
}

// TokenStore holds the session token between calls.
type TokenStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryTokenStore) Clear() { s.SetToken("") }

type Client struct {
	BaseURL string
	Client  *http.Client
	Tokens  TokenStore

	// OnUnauthorized runs after a 401 cleared the session, unless the call
	// opted out with WithoutAuthRedirect.
	OnUnauthorized func()
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Tokens:  &MemoryTokenStore{},
	}
}

type callOptions struct {
	skipAuthRedirect bool
}

type Option func(*callOptions)

// WithoutAuthRedirect keeps a 401 from clearing the session or calling
// OnUnauthorized. Pages that tolerate anonymous users use it.
func WithoutAuthRedirect() Option {
	return func(o *callOptions) { o.skipAuthRedirect = true }
}

// Do sends body as JSON and decodes a successful response into out when
// out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, opts ...Option) error {
	o := callOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !o.skipAuthRedirect {
		if c.Tokens != nil {
			c.Tokens.Clear()
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	if len(raw) == 0 {
		return apiErr
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Valid(raw) {
		apiErr.Payload = json.RawMessage(raw)
		if err := json.Unmarshal(raw, &body); err == nil {
			switch {
			case body.Message != "":
				apiErr.Message = body.Message
			case body.Error != "":
				apiErr.Message = body.Error
			}
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	resp := &models.TokenResponse{}
	if err := c.Do(ctx, http.MethodPost, "/auth/register", user, resp, WithoutAuthRedirect()); err != nil {
		return nil, err
	}
	c.Tokens.SetToken(resp.Token)
	return resp, nil
}

// Login signs in and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	resp := &models.TokenResponse{}
	creds := models.SignIn{Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", creds, resp, WithoutAuthRedirect()); err != nil {
		return nil, err
	}
	c.Tokens.SetToken(resp.Token)
	return resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, WithoutAuthRedirect())
	c.Tokens.Clear()
	return err
}

func (c *Client) Me(ctx context.Context, opts ...Option) (*models.User, error) {
	user := &models.User{}
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, user, opts...); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) List(ctx context.Context, entity string, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodGet, "/"+entity, nil, out, opts...)
}

func (c *Client) Get(ctx context.Context, entity, id string, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodGet, "/"+entity+"/"+id, nil, out, opts...)
}

func (c *Client) Create(ctx context.Context, entity string, body, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodPost, "/"+entity, body, out, opts...)
}

func (c *Client) Update(ctx context.Context, entity, id string, body, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodPut, "/"+entity+"/"+id, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, entity, id string, opts ...Option) error {
	return c.Do(ctx, http.MethodDelete, "/"+entity+"/"+id, nil, nil, opts...)
}
