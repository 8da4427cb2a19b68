// Package config provides configuration loading and structs for the advisor service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Market    MarketConfig    `yaml:"market"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Guardrail GuardrailConfig `yaml:"guardrail"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=0,max=65535"`
}

// EmbeddingConfig holds the in-process embedding model settings. The provider
// is fixed at startup; a load failure is fatal, never a per-call error.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" validate:"oneof=onnx mock"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions" validate:"min=1"`
	MaxTokens  int    `yaml:"max_tokens" validate:"min=1"`
	CacheSize  int    `yaml:"cache_size" validate:"min=0"`
}

// QdrantConfig holds the vector database connection and collection settings.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port" validate:"min=1,max=65535"`
	Collection string `yaml:"collection" validate:"required"`
}

// OllamaConfig holds the local model runtime settings.
type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url" validate:"required,url"`
	Model       string  `yaml:"model" validate:"required"`
	Temperature float64 `yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"min=1"`
}

// MarketConfig holds the market-data API settings. An empty APIKey disables
// market-data enrichment entirely.
type MarketConfig struct {
	APIKey          string   `yaml:"api_key"`
	BaseURL         string   `yaml:"base_url"`
	SymbolStopWords []string `yaml:"symbol_stop_words"`
}

// KnowledgeConfig holds knowledge-base settings. When CorpusDir is empty the
// built-in corpus is used.
type KnowledgeConfig struct {
	CorpusDir      string  `yaml:"corpus_dir"`
	TopK           int     `yaml:"top_k" validate:"min=1"`
	ScoreThreshold float64 `yaml:"score_threshold" validate:"min=0,max=1"`
}

// GuardrailConfig allows operators to extend the built-in policy lists.
type GuardrailConfig struct {
	ExtraBlockedTopics []string `yaml:"extra_blocked_topics"`
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and validates. Returns an error if the file cannot be read, parsed,
// or fails validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Knowledge.CorpusDir != "" {
		cfg.Knowledge.CorpusDir = expandPath(cfg.Knowledge.CorpusDir, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
