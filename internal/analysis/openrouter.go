package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"cv-insight/internal/config"
	"cv-insight/pkg/ratelimit"
)

// ErrMissingAPIKey is returned when the client has no credential configured.
// The analyzer treats it like any other generation failure and serves the
// mock report instead.
var ErrMissingAPIKey = errors.New("openrouter api key is missing")

// GenerateRequest is one text-generation call.
type GenerateRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Timeout      time.Duration
}

// Generator produces a report body from a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// OpenRouterClient calls the OpenRouter chat-completions endpoint. Calls are
// funneled through a shared token bucket so a burst of analyses cannot blow
// the per-minute request budget.
type OpenRouterClient struct {
	apiURL      string
	apiKey      string
	model       string
	temperature float64
	referer     string
	title       string
	httpClient  *http.Client
	limiter     *ratelimit.TokenBucket
	logger      zerolog.Logger
}

// OpenRouterOption configures an OpenRouterClient.
type OpenRouterOption func(*OpenRouterClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) OpenRouterOption {
	return func(o *OpenRouterClient) {
		o.httpClient = c
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(l zerolog.Logger) OpenRouterOption {
	return func(o *OpenRouterClient) {
		o.logger = l
	}
}

// NewOpenRouterClient builds a client from configuration. The per-request
// timeout comes from GenerateRequest, not the HTTP client, because CV-only
// and comparison analyses carry different deadlines.
func NewOpenRouterClient(cfg config.OpenRouterConfig, options ...OpenRouterOption) *OpenRouterClient {
	qpm := cfg.QPM
	if qpm <= 0 {
		qpm = 20
	}

	c := &OpenRouterClient{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		referer:     cfg.Referer,
		title:       cfg.Title,
		httpClient:  &http.Client{},
		limiter:     ratelimit.NewTokenBucket(qpm, 0),
		logger:      zerolog.Nop(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends one chat-completions request and returns the first choice.
// Transient failures are retried with backoff under the rate limit.
func (c *OpenRouterClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var content string
	err = c.limiter.RetryWithBackoff(ctx, func() error {
		var callErr error
		content, callErr = c.doRequest(ctx, body)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *OpenRouterClient) doRequest(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("X-Title", c.title)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// resp.Status keeps "429 Too Many Requests" visible to the retry
		// classifier.
		return "", fmt.Errorf("chat request failed: %s: %s", resp.Status, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}

	content := parsed.Choices[0].Message.Content
	c.logger.Info().
		Str("model", c.model).
		Int("chars", len(content)).
		Dur("took", time.Since(start)).
		Msg("received chat completion")
	return content, nil
}
