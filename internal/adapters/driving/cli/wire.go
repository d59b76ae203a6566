package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/Rajiv714/FinBot/internal/adapters/driven/config/file"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/embedding/cache"
	geminiembed "github.com/Rajiv714/FinBot/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/Rajiv714/FinBot/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/Rajiv714/FinBot/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/Rajiv714/FinBot/internal/adapters/driven/llm/ollama"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/parser/text"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/storage/sqlite"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/vectorindex/memory"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/vectorindex/pgvector"
	"github.com/Rajiv714/FinBot/internal/adapters/driven/vectorindex/qdrant"
	"github.com/Rajiv714/FinBot/internal/chunker"
	"github.com/Rajiv714/FinBot/internal/core/ports/driven"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
	"github.com/Rajiv714/FinBot/internal/core/services"
	"github.com/Rajiv714/FinBot/internal/logger"
)

// Wired services, built once per process by ensureServices.
var (
	cfg           file.Config
	ragService    driving.RAGService
	ingestService driving.IngestionService
	closers       []io.Closer
)

// ensureServices loads configuration and wires the pipeline. Safe to
// call from every command; wiring happens once.
func ensureServices() error {
	if ragService != nil {
		return nil
	}

	loaded, path, err := file.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded
	logger.Debug("Config loaded from %s", path)

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	closers = append(closers, embedder)

	index, err := buildIndex(cfg.Index)
	if err != nil {
		return err
	}
	closers = append(closers, index)

	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return err
	}
	closers = append(closers, llm)

	chk, err := chunker.New(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("chunker configuration: %w", err)
	}

	ledger, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	closers = append(closers, ledger)

	retriever := services.NewRetrieverService(embedder, index)
	ragService = services.NewRAGService(retriever, embedder, index, llm, services.RAGConfig{
		TopK:             cfg.Retrieval.TopK,
		ScoreThreshold:   cfg.Retrieval.ScoreThreshold,
		Temperature:      cfg.LLM.Temperature,
		MaxOutputTokens:  cfg.LLM.MaxTokens,
		GroundedPrompt:   cfg.Prompts.Grounded,
		UngroundedPrompt: cfg.Prompts.Ungrounded,
	})
	ingestService = services.NewIngestService(
		[]driven.DocumentParser{text.New()},
		chk, embedder, index, ledger,
	)

	return nil
}

func buildEmbedder(c file.EmbeddingConfig) (driven.EmbeddingService, error) {
	var embedder driven.EmbeddingService
	switch c.Provider {
	case "", "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for the gemini embedding provider")
		}
		embedder = geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:     apiKey,
			Model:      c.Model,
			Dimensions: c.Dimensions,
		})
	case "ollama":
		embedder = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    c.BaseURL,
			Model:      c.Model,
			Dimensions: c.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", c.Provider)
	}

	if c.CacheSize > 0 {
		embedder = cache.New(embedder, c.CacheSize)
	}
	return embedder, nil
}

func buildIndex(c file.IndexConfig) (driven.VectorIndex, error) {
	switch c.Provider {
	case "", "qdrant":
		return qdrant.New(qdrant.Config{
			BaseURL:    c.URL,
			Collection: c.Collection,
			APIKey:     os.Getenv("QDRANT_API_KEY"),
		}), nil
	case "pgvector":
		if c.URL == "" {
			return nil, fmt.Errorf("index.url (Postgres DSN) is required for the pgvector provider")
		}
		return pgvector.New(c.URL, c.Collection)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown index provider %q", c.Provider)
	}
}

func buildLLM(c file.LLMConfig) (driven.LLMService, error) {
	switch c.Provider {
	case "", "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for the gemini llm provider")
		}
		return geminillm.NewLLMService(geminillm.Config{
			APIKey: apiKey,
			Model:  c.Model,
		}), nil
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: c.BaseURL,
			Model:   c.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.Provider)
	}
}

// closeServices releases everything ensureServices opened.
func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}
