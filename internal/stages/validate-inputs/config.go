// internal/stages/validate-inputs/config.go
package validateinputs

type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func DefaultConfig(model string) *Config {
	return &Config{
		Model:       model,
		Temperature: 0.1,
		MaxTokens:   200,
	}
}
