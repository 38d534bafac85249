package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config points the client at the backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Error is returned for every failed request. StatusCode is zero when no
// response was received.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransport reports whether the request failed before any response.
func (e *Error) IsTransport() bool { return e.StatusCode == 0 }

// StatusOf returns the HTTP status and server message carried by err, if any.
func StatusOf(err error) (statusCode int, message string, ok bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.IsTransport() {
		return 0, "", false
	}
	return apiErr.StatusCode, apiErr.Message, true
}

type errorBody struct {
	Message string `json:"message"`
}

// Client issues JSON requests against the backend.
type Client struct {
	http *resty.Client
}

func NewClient(cfg Config) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}
	return &Client{http: c}
}

// Post sends body to path and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put sends body to path and decodes the acknowledgement into result.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var failure errorBody
	req := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&failure)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		// An unparsable error body still carries a usable status.
		if resp != nil && resp.RawResponse != nil && resp.IsError() {
			return &Error{Method: method, Path: path, StatusCode: resp.StatusCode(), Err: err}
		}
		return &Error{Method: method, Path: path, Err: err}
	}
	if resp.IsError() {
		slog.Debug("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode()),
			slog.String("message", failure.Message),
		)
		return &Error{Method: method, Path: path, StatusCode: resp.StatusCode(), Message: failure.Message}
	}
	return nil
}
