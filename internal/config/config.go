package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/malfinder/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Catalog
	CatalogPath  string `mapstructure:"catalog_path" yaml:"catalog_path"`
	CatalogLimit int    `mapstructure:"catalog_limit" yaml:"catalog_limit"`

	// Search and display
	TopN        int `mapstructure:"top_n" yaml:"top_n"`
	DisplayRows int `mapstructure:"display_rows" yaml:"display_rows"`

	// Report
	ReportPath   string `mapstructure:"report_path" yaml:"report_path"`
	ChartTempDir string `mapstructure:"chart_temp_dir" yaml:"chart_temp_dir"`

	// Embeddings
	EmbeddingProvider string `mapstructure:"embedding_provider" yaml:"embedding_provider"`
	EmbeddingModel    string `mapstructure:"embedding_model" yaml:"embedding_model"`
	OllamaHost        string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec  int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
	OpenAIAPIKey      string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	OpenAIBaseURL     string `mapstructure:"openai_base_url" yaml:"openai_base_url"`

	// Web UI
	ServeAddr string `mapstructure:"serve_addr" yaml:"serve_addr"`
}

var defaults = map[string]any{
	"catalog_path":       filepath.Join("Data", "AnimeFiltered.csv"),
	"catalog_limit":      15000,
	"top_n":              5000,
	"display_rows":       20,
	"report_path":        "anime_analysis.docx",
	"chart_temp_dir":     "",
	"embedding_provider": "tfidf",
	"embedding_model":    "",
	"ollama_host":        "http://127.0.0.1:11434",
	"ollama_timeout_sec": 60,
	"openai_api_key":     "",
	"openai_base_url":    "",
	"serve_addr":         ":8501",
}

// Keys returns every configuration key, sorted.
func Keys() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultPath returns ~/.malfinder/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".malfinder", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.malfinder/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including a .env file in the working directory) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MALFINDER")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	return &c, nil
}

// Set assigns key from its string form, validating the value.
func (c *Global) Set(key, val string) error {
	switch key {
	case "catalog_path":
		c.CatalogPath = val
	case "catalog_limit":
		i, err := nonNegative(key, val)
		if err != nil {
			return err
		}
		c.CatalogLimit = i
	case "top_n":
		i, err := nonNegative(key, val)
		if err != nil {
			return err
		}
		c.TopN = i
	case "display_rows":
		i, err := nonNegative(key, val)
		if err != nil {
			return err
		}
		c.DisplayRows = i
	case "report_path":
		if val == "" {
			return fmt.Errorf("report_path cannot be empty")
		}
		c.ReportPath = val
	case "chart_temp_dir":
		c.ChartTempDir = val
	case "embedding_provider":
		switch strings.ToLower(val) {
		case "tfidf", "local":
			c.EmbeddingProvider = "tfidf"
		case "ollama":
			c.EmbeddingProvider = "ollama"
		case "openai":
			c.EmbeddingProvider = "openai"
		default:
			return fmt.Errorf("invalid embedding_provider: %s (use tfidf, ollama or openai)", val)
		}
	case "embedding_model":
		c.EmbeddingModel = val
	case "ollama_host":
		c.OllamaHost = val
	case "ollama_timeout_sec":
		i, err := nonNegative(key, val)
		if err != nil {
			return err
		}
		c.OllamaTimeoutSec = i
	case "openai_api_key":
		c.OpenAIAPIKey = val
	case "openai_base_url":
		c.OpenAIBaseURL = val
	case "serve_addr":
		c.ServeAddr = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func nonNegative(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid int for %s: %v", key, val)
	}
	return i, nil
}
