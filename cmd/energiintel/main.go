package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/chunker"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/config"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/embedding"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/extractor"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/generation"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/server"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/service"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/synthesizer"
	"github.com/Anurooppatidar/EnergiIntel-Project/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file (optional)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	split, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		log.Error("invalid chunker config", "error", err)
		os.Exit(1)
	}

	timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second
	emb := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.EmbeddingModel,
		Timeout:   timeout,
	})
	gen := generation.NewClient(generation.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.ChatModel,
		Timeout:   timeout,
	})

	engine := service.New(extractor.New(), split, emb, synthesizer.New(gen), memory.New(), cfg.Retrieval.TopK, log)
	srv := server.New(engine, emb.CredentialConfigured, log)

	gin.SetMode(gin.ReleaseMode)
	log.Info("starting EnergiIntel server",
		"addr", cfg.Addr,
		"embedding_model", cfg.OpenAI.EmbeddingModel,
		"chat_model", cfg.OpenAI.ChatModel,
		"api_key_configured", emb.CredentialConfigured(),
	)
	if err := srv.Router().Run(cfg.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
