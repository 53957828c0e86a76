// Package client talks to the screener HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"screener/internal/model"

	"github.com/cenkalti/backoff/v5"
)

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Code       string   `json:"code"`
	Message    string   `json:"error"`
	Details    []string `json:"details"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d", e.StatusCode)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

// Temporary reports whether retrying the request may succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client wraps the screener API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxTries   uint
	retryDelay time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets how often and how soon a screener fetch is retried
func WithRetry(maxTries uint, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.retryDelay = initialDelay
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxTries:   3,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchScreener loads the screener, retrying transport failures and 5xx
func (c *Client) FetchScreener(ctx context.Context) (*model.Screener, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay

	return backoff.Retry(ctx, func() (*model.Screener, error) {
		var screener model.Screener
		err := c.do(ctx, http.MethodGet, "/assessments/screener", nil, &screener)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			return nil, err
		}
		return &screener, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries))
}

// SubmitAnswers posts the complete answer set once and returns the results.
// It is never retried, so a submission is scored at most once.
func (c *Client) SubmitAnswers(ctx context.Context, answers []model.Answer) (*model.ScoreResult, error) {
	if answers == nil {
		answers = []model.Answer{}
	}
	var result model.ScoreResult
	if err := c.do(ctx, http.MethodPost, "/assessments/score", model.ScoreRequest{Answers: answers}, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []string{}
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, apiErr); jsonErr != nil {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
