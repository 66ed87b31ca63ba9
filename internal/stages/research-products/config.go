// internal/stages/research-products/config.go
package researchproducts

type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func DefaultConfig(model string) *Config {
	return &Config{
		Model:       model,
		Temperature: 0.3,
		MaxTokens:   2000,
	}
}
