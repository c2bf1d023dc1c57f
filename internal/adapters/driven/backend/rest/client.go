package rest

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

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/ports/driven"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ChatBackend = (*Client)(nil)

// Endpoint paths.
const (
	PathTopics     = "/get-topics"
	PathInitialize = "/initialize-topic"
	PathAsk        = "/ask"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:5000).
	BaseURL string

	// Timeout bounds each HTTP attempt (default: 120s).
	Timeout time.Duration

	// RateLimit caps requests per second; 0 disables throttling.
	RateLimit float64

	// Retry configures transient-failure retries.
	Retry RetryPolicy

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the chat backend over HTTP/JSON.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	retry   RetryPolicy
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBackendURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retry:   cfg.Retry,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Topics fetches the list of available topics.
func (c *Client) Topics(ctx context.Context) ([]domain.Topic, error) {
	var resp topicsResponse
	if err := c.call(ctx, "get topics", http.MethodGet, PathTopics, nil, &resp); err != nil {
		return nil, err
	}
	topics := make([]string, len(resp.Topics))
	for i, t := range resp.Topics {
		topics[i] = ansi.Strip(t)
	}
	return domain.TopicsFromStrings(topics), nil
}

// InitializeTopic prepares topic on the backend. A response without
// success=true is reported as *domain.ApplicationError.
func (c *Client) InitializeTopic(ctx context.Context, topic domain.Topic) error {
	var resp initializeResponse
	req := initializeRequest{Topic: topic.String()}
	if err := c.call(ctx, "initialize topic", http.MethodPost, PathInitialize, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &domain.ApplicationError{Message: ansi.Strip(resp.Message)}
	}
	logger.Debug("initialize topic %s: %s", topic, resp.Message)
	return nil
}

// Ask sends a question scoped to topic.
func (c *Client) Ask(ctx context.Context, question string, topic domain.Topic) (*domain.Answer, error) {
	var resp askResponse
	req := askRequest{Question: question, Topic: topic.String()}
	if err := c.call(ctx, "ask", http.MethodPost, PathAsk, req, &resp); err != nil {
		return nil, err
	}
	resp.Answer = ansi.Strip(resp.Answer)
	return resp.toDomain(), nil
}

// call performs one logical request with retries and decodes into out.
func (c *Client) call(ctx context.Context, op, method, path string, body any, out failureReporter) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
	}

	return c.retry.Do(ctx, op, func(ctx context.Context) error {
		return c.do(ctx, op, method, path, payload, out)
	})
}

// do performs a single HTTP attempt.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte, out failureReporter) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return domain.ErrCancelled
			}
			return fmt.Errorf("%s: rate limit: %w", op, err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("%s %s", method, req.URL)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return domain.ErrCancelled
		}
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return validate(resp, op, out)
}

// validate converts the response into out, or into the domain error that
// describes why it cannot be used.
func validate(resp *http.Response, op string, out failureReporter) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &domain.HTTPError{StatusCode: resp.StatusCode}
		}
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		_ = json.Unmarshal(data, &body)
		return &domain.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    ansi.Strip(strings.TrimSpace(body.Error)),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if msg := strings.TrimSpace(out.failure()); msg != "" {
		return &domain.ApplicationError{Message: ansi.Strip(msg)}
	}
	return nil
}
