package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// Client calls an OpenAI-compatible chat completion endpoint to generate
// answer text. It implements domain.Generator. Failures are surfaced to the
// caller; the client never retries on its own.
type Client struct {
	baseURL    string
	apiKeyEnv  string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// Config configures the chat completion client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new generation client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKeyEnv:  cfg.APIKeyEnv,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

// Generate issues a single chat completion for the prompt and returns the
// model's reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	key := os.Getenv(c.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set, export it in the server's environment",
			domain.ErrGenerationUnavailable, c.apiKeyEnv)
	}
	conf := openai.DefaultConfig(key)
	if c.baseURL != "" {
		conf.BaseURL = c.baseURL
	}
	conf.HTTPClient = c.httpClient
	api := openai.NewClientWithConfig(conf)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w after %s", domain.ErrGenerationUnavailable, domain.ErrTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrGenerationUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
