package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type     string `yaml:"type"`
	MaxChars int    `yaml:"max_chars"`
}

// RetrieverConfig configures keyword retrieval.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// ComposerConfig configures how answers are rendered.
type ComposerConfig struct {
	SnippetMaxChars int    `yaml:"snippet_max_chars"`
	Marker          string `yaml:"marker"`
}

// ExtractorConfig switches the optional format backends on or off.
type ExtractorConfig struct {
	PDF  bool `yaml:"pdf"`
	DOCX bool `yaml:"docx"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// WatchConfig names a directory whose contents are re-uploaded on change.
type WatchConfig struct {
	Dir        string   `yaml:"dir,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// LogConfig configures the log file. An empty File disables logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Composer   ComposerConfig   `yaml:"composer"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/filechat/config.yaml.
// If neither exists, it writes defaults to ~/.config/filechat/config.yaml and returns them.
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
	cfg := defaultConfig()
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

// ApplyEnv overrides config values from FILECHAT_* environment variables.
func ApplyEnv(cfg *AppConfig, getenv func(string) string) error {
	if v := getenv("FILECHAT_TOP_K"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FILECHAT_TOP_K: %w", err)
		}
		cfg.Retriever.TopK = n
	}
	if v := getenv("FILECHAT_MAX_CHARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FILECHAT_MAX_CHARS: %w", err)
		}
		cfg.Chunker.MaxChars = n
	}
	if v := getenv("FILECHAT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("FILECHAT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	switch {
	case c.Chunker.Type != "paragraph":
		return fmt.Errorf("unknown chunker: %s", c.Chunker.Type)
	case c.Chunker.MaxChars <= 0:
		return fmt.Errorf("chunker.max_chars must be positive, got %d", c.Chunker.MaxChars)
	case c.Retriever.TopK <= 0:
		return fmt.Errorf("retriever.top_k must be positive, got %d", c.Retriever.TopK)
	case c.Composer.SnippetMaxChars <= 0:
		return fmt.Errorf("composer.snippet_max_chars must be positive, got %d", c.Composer.SnippetMaxChars)
	case c.Summarizer.Type != "frequency":
		return fmt.Errorf("unknown summarizer: %s", c.Summarizer.Type)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "filechat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Chunker:    ChunkerConfig{Type: "paragraph", MaxChars: 1200},
		Retriever:  RetrieverConfig{TopK: 5},
		Composer:   ComposerConfig{SnippetMaxChars: 1200, Marker: "`"},
		Extractor:  ExtractorConfig{PDF: true, DOCX: true},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 5},
		Log:        LogConfig{Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "paragraph"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Composer.Marker == "" {
		cfg.Composer.Marker = "`"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Watch.Dir != "" && len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".txt", ".md", ".pdf", ".docx"}
	}
}
