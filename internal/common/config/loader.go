// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like MIRA_SERVER_BIND_ADDR
	v.SetEnvPrefix("MIRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mira-backend")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.bind_addr", ":3001")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 180)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.validation_model", "gpt-4o-mini")
	v.SetDefault("openai.research_model", "gpt-4o")
	v.SetDefault("openai.timeout", 90)
	v.SetDefault("openai.temperature", 0.3)

	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.search_depth", "advanced")
	v.SetDefault("tavily.max_results", 5)
	v.SetDefault("tavily.timeout", 15)

	v.SetDefault("verifier.timeout", 8)
	v.SetDefault("verifier.max_concurrency", 8)
	v.SetDefault("verifier.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv maps the well-known plain environment variables onto
// the config. These take priority over file values so that deployments
// configured only through the environment keep working.
func overrideFromEnv(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if key := strings.TrimSpace(os.Getenv("TAVILY_API_KEY")); key != "" {
		cfg.Tavily.APIKey = key
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.BindAddr = ":" + port
	}
	if env := os.Getenv("APP_ENVIRONMENT"); env != "" {
		cfg.App.Environment = env
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.BindAddr == "" {
		return fmt.Errorf("server.bind_addr is required")
	}
	if cfg.OpenAI.BaseURL == "" {
		return fmt.Errorf("openai.base_url is required")
	}
	if cfg.Tavily.MaxResults <= 0 {
		return fmt.Errorf("tavily.max_results must be positive")
	}
	if cfg.Verifier.Timeout <= 0 {
		return fmt.Errorf("verifier.timeout must be positive")
	}
	if cfg.Verifier.MaxConcurrency <= 0 {
		return fmt.Errorf("verifier.max_concurrency must be positive")
	}
	return nil
}

// loadEnvFile loads .env from a handful of likely locations so the
// service behaves the same when started from the repo root, from
// cmd/server, or from a test directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
