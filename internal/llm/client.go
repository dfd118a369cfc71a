// Package llm is a thin client for an OpenAI-compatible chat-completions API.
// It makes exactly one request per call and never retries.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds the connection settings for the upstream API.
type Config struct {
	APIKey  string
	URL     string // full chat-completions endpoint
	Model   string
	Timeout time.Duration
}

// CompletionRequest is a single system+user exchange.
// JSON asks the upstream to emit a JSON object and nothing else.
type CompletionRequest struct {
	System      string
	User        string
	JSON        bool
	Temperature float64
	MaxTokens   int
}

// UpstreamError is returned when the API cannot be reached or answers with a
// non-2xx status.
type UpstreamError struct {
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client calls the chat-completions endpoint.
type Client struct {
	http  *resty.Client
	url   string
	model string
}

// New builds a Client. The API key is sent as a bearer token on every request.
func New(cfg Config) *Client {
	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &Client{http: c, url: cfg.URL, model: cfg.Model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// Complete sends one chat request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		Post(c.url)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(cr.Choices) == 0 {
		return "", nil
	}
	if content := cr.Choices[0].Message.Content; content != "" {
		return content, nil
	}
	return cr.Choices[0].Text, nil
}
