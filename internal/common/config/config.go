// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Tavily   TavilyConfig   `mapstructure:"tavily"`
	Verifier VerifierConfig `mapstructure:"verifier"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	BindAddr        string `mapstructure:"bind_addr"`
	AllowedOrigin   string `mapstructure:"allowed_origin"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
}

// OpenAIConfig holds settings for the chat-completion provider. The two
// model fields cover the two distinct invocations the pipeline makes:
// a small classification call and a larger generation call.
type OpenAIConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	ValidationModel string  `mapstructure:"validation_model"`
	ResearchModel   string  `mapstructure:"research_model"`
	Timeout         int     `mapstructure:"timeout"` // seconds
	Temperature     float64 `mapstructure:"temperature"`
}

// TavilyConfig holds settings for the web-search provider. An empty
// APIKey disables search; the pipeline degrades gracefully.
type TavilyConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	SearchDepth string `mapstructure:"search_depth"`
	MaxResults  int    `mapstructure:"max_results"`
	Timeout     int    `mapstructure:"timeout"` // seconds
}

// VerifierConfig bounds the per-product link reachability checks.
type VerifierConfig struct {
	Timeout        int    `mapstructure:"timeout"` // seconds, per check
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	UserAgent      string `mapstructure:"user_agent"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

func (o OpenAIConfig) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

func (t TavilyConfig) TimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}

func (v VerifierConfig) TimeoutDuration() time.Duration {
	return time.Duration(v.Timeout) * time.Second
}
