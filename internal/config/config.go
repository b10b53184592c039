package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for the OpenAI-compatible providers
// used for embeddings and answer generation. The API key itself is never
// stored in the file; only the name of the environment variable carrying it.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// RetrievalConfig configures similarity search at query time.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Addr      string          `yaml:"addr"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from the given path. If the file does not exist,
// defaults are returned. Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = 30
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 800
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 120
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("ENERGIINTEL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ENERGIINTEL_EMBEDDING_MODEL"); v != "" {
		cfg.OpenAI.EmbeddingModel = v
	}
	if v := os.Getenv("ENERGIINTEL_CHAT_MODEL"); v != "" {
		cfg.OpenAI.ChatModel = v
	}
	if v := os.Getenv("ENERGIINTEL_OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
}
