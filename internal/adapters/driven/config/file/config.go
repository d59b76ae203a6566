// Package file loads FinBot configuration from a TOML file, writing a
// commented default file on first run. Secrets (API keys) are read from
// the environment, never from the file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	Index     IndexConfig     `toml:"index"`
	LLM       LLMConfig       `toml:"llm"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Prompts   PromptsConfig   `toml:"prompts"`
	Documents DocumentsConfig `toml:"documents"`
	Server    ServerConfig    `toml:"server"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	// Provider is "gemini" or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider's default embedding model.
	Model string `toml:"model"`

	// Dimensions overrides the provider's default vector size.
	Dimensions int `toml:"dimensions"`

	// BaseURL overrides the provider endpoint (mainly for ollama).
	BaseURL string `toml:"base_url"`

	// CacheSize bounds the in-process embedding cache; 0 disables it.
	CacheSize int `toml:"cache_size"`
}

// IndexConfig selects and tunes the vector index backend.
type IndexConfig struct {
	// Provider is "qdrant", "pgvector" or "memory".
	Provider string `toml:"provider"`

	// URL is the Qdrant endpoint or the Postgres DSN.
	URL string `toml:"url"`

	// Collection overrides the default collection/table name.
	Collection string `toml:"collection"`
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	// Provider is "gemini" or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider's default generation model.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint (mainly for ollama).
	BaseURL string `toml:"base_url"`

	// Temperature is the default generation temperature.
	Temperature float64 `toml:"temperature"`

	// MaxTokens bounds the generated answer length.
	MaxTokens int `toml:"max_tokens"`
}

// ChunkingConfig tunes the word-window chunker.
type ChunkingConfig struct {
	// ChunkSize is the window size in words.
	ChunkSize int `toml:"chunk_size"`

	// Overlap is the window overlap in words; must be < ChunkSize.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig tunes similarity search.
type RetrievalConfig struct {
	// TopK is the default number of chunks to retrieve.
	TopK int `toml:"top_k"`

	// ScoreThreshold is the default minimum similarity.
	ScoreThreshold float64 `toml:"score_threshold"`
}

// PromptsConfig overrides the built-in prompt templates. Both templates
// take the question as a %s verb; the grounded one additionally takes
// the retrieved context first.
type PromptsConfig struct {
	// Grounded is the template used when retrieved context is available.
	Grounded string `toml:"grounded"`

	// Ungrounded is the template used without document context.
	Ungrounded string `toml:"ungrounded"`
}

// DocumentsConfig locates source documents.
type DocumentsConfig struct {
	// Dir is the directory scanned by the ingest command.
	Dir string `toml:"dir"`
}

// ServerConfig tunes the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address for the serve command.
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:  "gemini",
			CacheSize: 1000,
		},
		Index: IndexConfig{
			Provider: "qdrant",
			URL:      "http://localhost:6333",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Temperature: 0.1,
			MaxTokens:   1024,
		},
		Chunking: ChunkingConfig{
			ChunkSize: 500,
			Overlap:   50,
		},
		Retrieval: RetrievalConfig{
			TopK:           5,
			ScoreThreshold: 0.7,
		},
		Documents: DocumentsConfig{
			Dir: "data/documents",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// Load reads the config file under configDir, creating it with defaults
// on first run. An empty configDir defaults to ~/.finbot.
func Load(configDir string) (Config, string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".finbot")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, DefaultFileName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return Config{}, "", err
		}
		return cfg, path, nil
	}
	if err != nil {
		return Config{}, "", fmt.Errorf("reading config: %w", err)
	}

	// Unknown or missing keys fall back to defaults.
	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, "", fmt.Errorf("parsing config: %w", err)
	}
	return cfg, path, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
