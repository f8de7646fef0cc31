package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"wordsim/internal/domain"
)

// EmbeddingConfig holds the hyperparameters of the custom embedding model.
type EmbeddingConfig struct {
	Dimension    int     `yaml:"dimension"`
	Margin       float64 `yaml:"margin"`
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// DocumentsConfig points at the training corpus.
type DocumentsConfig struct {
	Folder string `yaml:"folder"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// GenericConfig selects and configures the generic embedding provider.
type GenericConfig struct {
	Type      string                `yaml:"type"`
	CacheSize int                   `yaml:"cache_size"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// VectorStoreConfig selects and configures the neighbor index backend.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
// Each training run writes to its own collection prefixed with Collection.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Documents   DocumentsConfig   `yaml:"documents"`
	Generic     GenericConfig     `yaml:"generic"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// ModelConfig returns the embedding hyperparameters as a domain value.
func (c *AppConfig) ModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		EmbedDim:     c.Embedding.Dimension,
		Margin:       c.Embedding.Margin,
		Epochs:       c.Embedding.Epochs,
		LearningRate: c.Embedding.LearningRate,
	}
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/wordsim/config.yaml.
// If neither exists, it writes defaults to ~/.config/wordsim/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wordsim", "config.yaml"), nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = 16
	}
	if cfg.Embedding.Margin == 0 {
		cfg.Embedding.Margin = 2.0
	}
	if cfg.Embedding.Epochs == 0 {
		cfg.Embedding.Epochs = 300
	}
	if cfg.Embedding.LearningRate == 0 {
		cfg.Embedding.LearningRate = 0.01
	}
	if cfg.Embedding.Seed == 0 {
		cfg.Embedding.Seed = 42
	}
	if cfg.Documents.Folder == "" {
		cfg.Documents.Folder = "documents"
	}
	if cfg.Generic.Type == "" {
		cfg.Generic.Type = "charhash"
	}
	if cfg.Generic.CacheSize == 0 {
		cfg.Generic.CacheSize = 1024
	}
	if cfg.Generic.Type == "openai" && cfg.Generic.OpenAI != nil {
		if cfg.Generic.OpenAI.BaseURL == "" {
			cfg.Generic.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Generic.OpenAI.APIKeyEnv == "" {
			cfg.Generic.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Generic.OpenAI.Model == "" {
			cfg.Generic.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Generic.OpenAI.TimeoutSecs == 0 {
			cfg.Generic.OpenAI.TimeoutSecs = 30
		}
		if cfg.Generic.OpenAI.MaxRetries == 0 {
			cfg.Generic.OpenAI.MaxRetries = 5
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil && cfg.VectorStore.Qdrant.Collection == "" {
		cfg.VectorStore.Qdrant.Collection = "wordsim"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
