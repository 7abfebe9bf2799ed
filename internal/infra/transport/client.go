package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// StatusNetworkError is reported when no HTTP response was received.
	StatusNetworkError = 0

	MessageNetworkError = "Network error or server unavailable"
	MessageUnexpected   = "An unexpected error occurred"
	MessageMalformed    = "Malformed response from server"

	maxErrorBody = 4 << 10
)

// Result is the outcome of one upstream call: either Data on success, or Error with the
// HTTP status preserved. Status is StatusNetworkError when the request never got a response.
type Result[T any] struct {
	Status int
	Data   *T
	Error  string
}

// Failed reports whether the call produced no usable data.
func (r Result[T]) Failed() bool {
	return r.Error != "" || r.Data == nil
}

// Unauthorized reports a 401/403 from the upstream service.
func (r Result[T]) Unauthorized() bool {
	return r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden
}

// ErrorOr returns the upstream error message, or fallback when there is none.
func (r Result[T]) ErrorOr(fallback string) string {
	if strings.TrimSpace(r.Error) != "" {
		return r.Error
	}
	return fallback
}

// Failure builds a failed result.
func Failure[T any](status int, message string) Result[T] {
	return Result[T]{Status: status, Error: message}
}

// Success builds a successful result.
func Success[T any](status int, data T) Result[T] {
	return Result[T]{Status: status, Data: &data}
}

// Client performs JSON requests against the remote activity service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a transport client. A zero timeout leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "transport.client"),
	}
}

// BaseURL returns the upstream root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Error string `json:"error"`
}

// Do sends one request and decodes the JSON response into T. A bearer token is attached
// when token is non-empty. Do never returns a Go error: every failure is folded into the Result.
func Do[T any](ctx context.Context, c *Client, method, path, token string, body any) Result[T] {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		c.logger.Error("build upstream request failed", "method", method, "path", path, "error", err)
		return Failure[T](StatusNetworkError, MessageNetworkError)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed", "method", method, "path", path, "error", err)
		return Failure[T](StatusNetworkError, MessageNetworkError)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status == http.StatusNoContent {
		return Result[T]{Status: status}
	}

	if status < 200 || status >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := MessageUnexpected
		var decoded errorBody
		if err := json.Unmarshal(payload, &decoded); err == nil && strings.TrimSpace(decoded.Error) != "" {
			message = decoded.Error
		}
		c.logger.Warn("upstream returned error", "method", method, "path", path, "status", status, "error", message)
		return Failure[T](status, message)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("read upstream response failed", "path", path, "status", status, "error", err)
		return Failure[T](status, MessageMalformed)
	}
	// an empty or null body carries no data; callers fall back to their own message
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Result[T]{Status: status}
	}

	var data T
	if err := json.Unmarshal(payload, &data); err != nil {
		c.logger.Warn("decode upstream response failed", "path", path, "status", status, "error", err)
		return Failure[T](status, MessageMalformed)
	}
	return Success(status, data)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	if c.baseURL == "" {
		return nil, errors.New("upstream base url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
