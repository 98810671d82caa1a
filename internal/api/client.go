// Package api is the client for the Savlink REST API. Every response is
// wrapped in a {success, data, message|error} envelope; the client unwraps it
// and returns raw records for the caller to normalize.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rodstewart/savlink-cli/internal/logger"
	"github.com/rodstewart/savlink-cli/internal/models"
)

// ErrNotFound is wrapped by every error caused by a 404 response.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response, or a 2xx response with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Client is the Savlink API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger requests are reported to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new Savlink API client
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e envelope) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// doRequest performs an HTTP request with auth and error handling
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("cannot connect to %s. Is Savlink reachable?", c.baseURL)
	}

	c.log.Debug("api request",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return resp, nil
}

// handleErrorResponse converts HTTP error responses into user-friendly messages
func (c *Client) handleErrorResponse(resp *http.Response) error {
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(raw))
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.text() != "" {
		msg = env.text()
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed. Check your API token")
	case http.StatusForbidden:
		return fmt.Errorf("insufficient permissions for this operation")
	case http.StatusNotFound:
		if msg == "" {
			msg = "resource"
		}
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", msg)
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// call performs a request and decodes the envelope's data into out, which may
// be nil when the caller only needs success.
func (c *Client) call(method, path string, body, out any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		msg := env.text()
		if msg == "" {
			msg = "request was not successful"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("failed to decode response: missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Me returns the account the token belongs to.
func (c *Client) Me() (*models.User, error) {
	var data struct {
		User *models.User `json:"user"`
	}
	if err := c.call(http.MethodGet, "/api/auth/me", nil, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("failed to decode response: missing user")
	}
	return data.User, nil
}

// TestConnection tests the connection to Savlink
func (c *Client) TestConnection() error {
	_, err := c.Me()
	return err
}
