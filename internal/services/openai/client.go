package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL           = "https://api.openai.com/v1"
	defaultModel             = "gpt-4o-mini"
	defaultTranscribeModel   = "whisper-1"
	jsonResponseType         = "json_object"
	defaultHTTPTimeout       = 60 * time.Second
	defaultTranscribeTimeout = 5 * time.Minute
	defaultTranscribeRetries = 3
	defaultRetryBaseDelay    = 2 * time.Second
)

// Config captures the runtime settings required to talk to the service.
type Config struct {
	APIKey                   string
	BaseURL                  string
	Model                    string
	TranscribeModel          string
	Language                 string
	TimeoutSeconds           int
	TranscribeTimeoutSeconds int
	TranscribeRetries        int
}

// Client wraps the OpenAI chat-completion and audio-transcription APIs.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		sleeper:    time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	if strings.TrimSpace(client.cfg.BaseURL) == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	client.cfg.BaseURL = strings.TrimRight(client.cfg.BaseURL, "/")
	if strings.TrimSpace(client.cfg.Model) == "" {
		client.cfg.Model = defaultModel
	}
	if strings.TrimSpace(client.cfg.TranscribeModel) == "" {
		client.cfg.TranscribeModel = defaultTranscribeModel
	}
	return client
}

// Configured reports whether the client has a usable API key.
func (c *Client) Configured() bool {
	key := strings.TrimSpace(c.cfg.APIKey)
	return key != "" && key != "your_openai_api_key"
}

func (c *Client) transcribeTimeout() time.Duration {
	if c.cfg.TranscribeTimeoutSeconds > 0 {
		return time.Duration(c.cfg.TranscribeTimeoutSeconds) * time.Second
	}
	return defaultTranscribeTimeout
}

func (c *Client) transcribeRetries() int {
	if c.cfg.TranscribeRetries > 0 {
		return c.cfg.TranscribeRetries
	}
	return defaultTranscribeRetries
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// completeJSON issues a JSON-only chat completion and returns the raw JSON
// payload produced by the model.
func (c *Client) completeJSON(ctx context.Context, op, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%s: api key required", op)
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.3,
		MaxTokens:      maxTokens,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%s: build url: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("%s: request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%s: http %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", op, strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", op)
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New(op + ": empty content")
	}
	return content, nil
}
