package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// API requests carry at most this many inputs; larger uploads are embedded
// as concurrent sub-batches.
const maxBatchSize = 64

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
// The API key is resolved from the environment on every call, so exporting it
// after startup takes effect without a restart.
type Client struct {
	baseURL    string
	apiKeyEnv  string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
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

// CredentialConfigured reports whether the API key is present in the environment.
func (c *Client) CredentialConfigured() bool {
	return os.Getenv(c.apiKeyEnv) != ""
}

// EmbedBatch embeds all texts, preserving input order. It fails as a whole:
// either every text has a vector or none are returned.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	api, err := c.api()
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end
		g.Go(func() error {
			vecs, err := c.embed(gctx, api, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *Client) api() (*openai.Client, error) {
	key := os.Getenv(c.apiKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: %s is not set, export it in the server's environment",
			domain.ErrEmbeddingUnavailable, c.apiKeyEnv)
	}
	conf := openai.DefaultConfig(key)
	if c.baseURL != "" {
		conf.BaseURL = c.baseURL
	}
	conf.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(conf), nil
}

func (c *Client) embed(ctx context.Context, api *openai.Client, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: texts,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w after %s", domain.ErrEmbeddingUnavailable, domain.ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
			domain.ErrEmbeddingUnavailable, len(resp.Data), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", domain.ErrEmbeddingUnavailable, d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		l2normalize(v)
		vecs[d.Index] = v
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", domain.ErrEmbeddingUnavailable, i)
		}
	}
	return vecs, nil
}

// l2normalize scales v to unit length so cosine similarity reduces to a dot
// product in the index.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
