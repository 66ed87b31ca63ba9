// internal/stages/verify-links/config.go
package verifylinks

import "time"

type Config struct {
	Timeout        time.Duration // per product check
	MaxConcurrency int
	UserAgent      string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:        8 * time.Second,
		MaxConcurrency: 8,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}
