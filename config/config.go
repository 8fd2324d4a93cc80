package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the phrase standardiser.
type Config struct {
	Phrases   PhrasesConfig   `yaml:"phrases"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PhrasesConfig describes where canonical phrases come from.
type PhrasesConfig struct {
	Source        string  `yaml:"source"` // file path (.csv, .txt) or postgres:// DSN
	Column        string  `yaml:"column"` // CSV header of the phrase column
	Table         string  `yaml:"table"`  // Postgres table
	TableColumn   string  `yaml:"table_column"`
	NearDuplicate float64 `yaml:"near_duplicate"` // Jaro-Winkler cutoff for `phrases check`
}

// SuggestConfig holds the suggestion engine parameters.
type SuggestConfig struct {
	Threshold  float64 `yaml:"threshold"`
	WindowSize int     `yaml:"window_size"`
	Merge      string  `yaml:"merge"` // "local" or "interval"
	Workers    int     `yaml:"workers"`
}

// SegmenterConfig selects the sentence segmenter.
type SegmenterConfig struct {
	Kind string `yaml:"kind"` // "punkt" or "simple"
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string     `yaml:"provider"` // "openai", "ollama", "jina", "deepseek", "onnx", "hash"
	Model     string     `yaml:"model"`
	APIKeyEnv string     `yaml:"api_key_env"`
	BaseURL   string     `yaml:"base_url"`
	Dimension int        `yaml:"dimension"`
	BatchSize int        `yaml:"batch_size"`
	ONNX      ONNXConfig `yaml:"onnx"`
}

// ONNXConfig configures the local ONNX runtime embedder.
type ONNXConfig struct {
	Library   string `yaml:"library"` // path to the onnxruntime shared library
	ModelPath string `yaml:"model_path"`
	Tokenizer string `yaml:"tokenizer"` // tokenizer.json
	MaxSeqLen int    `yaml:"max_seq_len"`
}

// CacheConfig controls embedding caching.
type CacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	MemoryEntries int  `yaml:"memory_entries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text", "json", "logfmt"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Phrases: PhrasesConfig{
			Source:        "input_files/Standardised terms.csv",
			Column:        "Optimal performance",
			Table:         "standard_phrases",
			TableColumn:   "phrase",
			NearDuplicate: 0.92,
		},
		Suggest: SuggestConfig{
			Threshold:  0.45,
			WindowSize: 3,
			Merge:      "local",
			Workers:    4,
		},
		Segmenter: SegmenterConfig{
			Kind: "punkt",
		},
		Embedding: EmbeddingConfig{
			Provider:  "hash", // Offline default; no API key required
			Model:     "all-MiniLM-L6-v2",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 64,
			ONNX: ONNXConfig{
				MaxSeqLen: 128,
			},
		},
		Cache: CacheConfig{
			Enabled:       true,
			MemoryEntries: 4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for stdphrase.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "stdphrase.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDirName is the per-project directory holding the embedding cache.
const DataDirName = ".stdphrase"

// CacheDBPath returns the path to the embedding cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, DataDirName, "cache.db")
}

// EnsureDataDir ensures the .stdphrase directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDirName), 0755)
}
