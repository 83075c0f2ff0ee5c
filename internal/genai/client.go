// Package genai provides a client for the generative text-completion
// collaborator. Responses are untrusted free text; callers validate them.
package genai

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
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-haiku-4-5"
	defaultMaxTok  = 1024

	// requestTimeout bounds the completion call, the only operation in
	// the system with meaningfully long latency. A timeout is treated by
	// callers exactly like a hard failure.
	requestTimeout = 30 * time.Second

	maxBodySize = 1 << 20 // 1 MB
	keyPrefix   = "sk-ant-"
)

var (
	// ErrUnauthorized indicates the API key is invalid or expired.
	ErrUnauthorized = errors.New("genai: unauthorized (API key invalid or expired)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("genai: rate limited")
	// ErrEmptyCompletion indicates a well-formed response with no text.
	ErrEmptyCompletion = errors.New("genai: empty completion")
)

// Options configure the completion client. Zero values use defaults.
type Options struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client calls the messages endpoint of the completion API.
type Client struct {
	apiKey string
	opts   Options
	http   *http.Client
}

// NewClient creates a client for the given API key.
// Returns nil if the key is empty or has the wrong prefix.
func NewClient(apiKey string, opts Options) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || !strings.HasPrefix(apiKey, keyPrefix) {
		return nil
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTok
	}
	return &Client{
		apiKey: apiKey,
		opts:   opts,
		http:   &http.Client{},
	}
}

// messageRequest is the wire shape of a completion request.
type messageRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageResponse is the wire shape of a completion response.
type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends a structured prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload, err := json.Marshal(messageRequest{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", fmt.Errorf("genai: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("genai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("genai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("genai: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("genai: reading response: %w", err)
	}

	var mr messageResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return "", fmt.Errorf("genai: parsing response: %w", err)
	}

	var b strings.Builder
	for _, block := range mr.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
