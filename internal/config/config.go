// Package config provides configuration loading and structs for the Mevzuat server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Agent     AgentConfig     `yaml:"agent"`
	WebSearch WebSearchConfig `yaml:"web_search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the article database and indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// IngestConfig holds PDF ingestion settings.
type IngestConfig struct {
	PDFDir    string `yaml:"pdf_dir"`
	BatchSize int    `yaml:"batch_size"`
	Watch     bool   `yaml:"watch"`
}

// EmbeddingConfig holds settings for the remote embeddings API.
type EmbeddingConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	CacheSize  int    `yaml:"cache_size"`
}

// LLMConfig holds settings for the chat completion API.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// AgentConfig holds reasoning loop bounds and retrieval settings.
type AgentConfig struct {
	MaxIterations      int `yaml:"max_iterations"`
	MaxDurationSeconds int `yaml:"max_duration_seconds"`
	RetrieveK          int `yaml:"retrieve_k"`
}

// MaxDuration returns the wall-clock bound as a duration.
func (a *AgentConfig) MaxDuration() time.Duration {
	return time.Duration(a.MaxDurationSeconds) * time.Second
}

// WebSearchConfig holds Google Custom Search settings for the restricted
// site search tool.
type WebSearchConfig struct {
	APIKeyEnv  string `yaml:"api_key_env"`
	CSEIDEnv   string `yaml:"cse_id_env"`
	SiteDomain string `yaml:"site_domain"`
	MaxResults int    `yaml:"max_results"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
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
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Ingest.PDFDir = expandPath(cfg.Ingest.PDFDir, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
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
