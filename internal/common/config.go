// Package common provides shared utilities for stockbrief
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stockbrief
type Config struct {
	Environment string          `toml:"environment"`
	Timezone    string          `toml:"timezone"` // Market timezone used to resolve "today" (default Asia/Seoul)
	Server      ServerConfig    `toml:"server"`
	Clients     ClientsConfig   `toml:"clients"`
	Portfolio   PortfolioConfig `toml:"portfolio"`
	Document    DocumentConfig  `toml:"document"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD     EODHDConfig     `toml:"eodhd"`
	LLM       LLMConfig       `toml:"llm"`
	Gemini    GeminiConfig    `toml:"gemini"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Anthropic AnthropicConfig `toml:"anthropic"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Exchange  string `toml:"exchange"` // Suffix appended to bare tickers ("KO" = KOSPI, "KQ" = KOSDAQ)
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LLMConfig selects the language-model provider and the token budgets.
type LLMConfig struct {
	Provider         string `toml:"provider"` // "gemini", "openai" or "anthropic"
	ReportMaxTokens  int    `toml:"report_max_tokens"`
	SummaryMaxTokens int    `toml:"summary_max_tokens"`
	Timeout          string `toml:"timeout"`
}

// GetTimeout parses and returns the per-request timeout, zero meaning the client default.
func (c *LLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// AnthropicConfig holds Anthropic API configuration
type AnthropicConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// PortfolioConfig selects where portfolio compositions come from.
type PortfolioConfig struct {
	Source      string `toml:"source"`    // "file" or "remote"
	BookPath    string `toml:"book_path"` // TOML model book with allocations and the stock directory
	RemoteURL   string `toml:"remote_url"`
	RowsPath    string `toml:"rows_path"` // JSONPath selecting the allocation rows in the remote response
	CodeField   string `toml:"code_field"`
	WeightField string `toml:"weight_field"`
	Timeout     string `toml:"timeout"`
}

// GetTimeout parses and returns the remote allocation timeout
func (c *PortfolioConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// DocumentConfig holds PDF rendering configuration
type DocumentConfig struct {
	RegularFont  string `toml:"regular_font"`
	BoldFont     string `toml:"bold_font"`
	OutputDir    string `toml:"output_dir"`
	IncludeChart bool   `toml:"include_chart"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Timezone:    "Asia/Seoul",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8001,
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
				Exchange:  "KO",
			},
			LLM: LLMConfig{
				Provider:         "gemini",
				ReportMaxTokens:  4096,
				SummaryMaxTokens: 2048,
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
			OpenAI: OpenAIConfig{
				Model: "gpt-4o",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-sonnet-4-5",
			},
		},
		Portfolio: PortfolioConfig{
			Source:      "file",
			BookPath:    "config/models.toml",
			RowsPath:    "$.data[*]",
			CodeField:   "isuSrtCd",
			WeightField: "weight",
			Timeout:     "60s",
		},
		Document: DocumentConfig{
			RegularFont:  "./Nanum_Gothic/NanumGothic-Regular.ttf",
			BoldFont:     "./Nanum_Gothic/NanumGothic-Bold.ttf",
			OutputDir:    "reports",
			IncludeChart: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "./logs/stockbrief.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeProvider(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKBRIEF_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKBRIEF_HOST"); host != "" {
		config.Server.Host = host
	}

	// PORT is honoured for parity with common PaaS conventions
	for _, name := range []string{"PORT", "STOCKBRIEF_PORT"} {
		if port := os.Getenv(name); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
		}
	}

	if level := os.Getenv("STOCKBRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if tz := os.Getenv("STOCKBRIEF_TIMEZONE"); tz != "" {
		config.Timezone = tz
	}

	if p := os.Getenv("STOCKBRIEF_LLM_PROVIDER"); p != "" {
		config.Clients.LLM.Provider = p
	}

	if v := os.Getenv("STOCKBRIEF_PORTFOLIO_SOURCE"); v != "" {
		config.Portfolio.Source = v
	}
	if v := os.Getenv("STOCKBRIEF_PORTFOLIO_BOOK"); v != "" {
		config.Portfolio.BookPath = v
	}
	if v := os.Getenv("STOCKBRIEF_PORTFOLIO_URL"); v != "" {
		config.Portfolio.RemoteURL = v
	}

	if v := os.Getenv("STOCKBRIEF_REPORT_DIR"); v != "" {
		config.Document.OutputDir = v
	}
	if v := os.Getenv("STOCKBRIEF_FONT_REGULAR"); v != "" {
		config.Document.RegularFont = v
	}
	if v := os.Getenv("STOCKBRIEF_FONT_BOLD"); v != "" {
		config.Document.BoldFont = v
	}
}

// normalizeProvider lower-cases the provider and falls back to gemini for unknown values.
func normalizeProvider(config *Config) {
	p := strings.ToLower(strings.TrimSpace(config.Clients.LLM.Provider))
	switch p {
	case "gemini", "openai", "anthropic":
	default:
		p = "gemini"
	}
	config.Clients.LLM.Provider = p
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Location resolves the configured timezone, falling back to a fixed KST offset.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

// ResolveAPIKey resolves an API key from environment or the configured fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key":     {"EODHD_API_KEY", "STOCKBRIEF_EODHD_API_KEY"},
		"gemini_api_key":    {"GEMINI_API_KEY", "STOCKBRIEF_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"openai_api_key":    {"OPENAI_API_KEY", "STOCKBRIEF_OPENAI_API_KEY", "GPT_API_KEY"},
		"anthropic_api_key": {"ANTHROPIC_API_KEY", "STOCKBRIEF_ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
