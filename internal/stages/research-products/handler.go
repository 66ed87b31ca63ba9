// internal/stages/research-products/handler.go
package researchproducts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mira-backend/internal/clients/openai"
	"mira-backend/internal/common/logger"
)

const (
	StageName = "research-products"

	// Sentinel is the fixed string the model is instructed to emit when
	// no qualifying local products can be identified.
	Sentinel = "NO_RESULTS_FOUND"
)

var (
	ErrNoResults   = errors.New("NO_RESULTS_FOUND")
	ErrParseFailed = errors.New("RESEARCH_PARSE_FAILED")
)

type Handler struct {
	config *Config
	ai     openai.Completer
	logger logger.Logger
}

func NewHandler(config *Config, ai openai.Completer, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		ai:     ai,
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute asks the research model for 3-5 locally operating products.
// The sentinel outcome maps to ErrNoResults before any parse attempt;
// an unparsable reply maps to ErrParseFailed. Provider errors propagate
// untouched.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	content, err := h.ai.ChatCompletion(ctx, openai.Request{
		Model: h.config.Model,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: "You are a helpful insurance research assistant. Always provide accurate, real information about insurance products. If you cannot find sufficient products, clearly state so.",
			},
			{
				Role:    "user",
				Content: h.buildPrompt(input),
			},
		},
		Temperature: h.config.Temperature,
		MaxTokens:   h.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	if strings.Contains(content, Sentinel) {
		h.logger.Info("research returned no qualifying products", map[string]interface{}{
			"insuranceType": input.InsuranceType,
			"country":       input.Country,
		})
		return nil, ErrNoResults
	}

	products, err := parseProducts(content)
	if err != nil {
		h.logger.Error("failed to parse research results", map[string]interface{}{
			"error":    err.Error(),
			"response": content,
		})
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	h.logger.Info("research completed", map[string]interface{}{
		"productCount": len(products),
	})

	return &Output{Products: products}, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an insurance product research assistant. Research and provide information about %s insurance products available in %s.\n\n",
		input.InsuranceType, input.Country)

	if input.SearchContext != "" {
		fmt.Fprintf(&b, "HERE IS REAL-TIME SEARCH CONTEXT (Use this as your primary source):\n%s\n\n", input.SearchContext)
	}

	fmt.Fprintf(&b, `Please search for real insurance products and provide a comprehensive report with the following structure:

1. For each product found (aim for 3-5 products), include:
   - Product Name
   - Insurer/Company Name (MUST be an insurer operating IN %[1]s)
   - Key Benefits (3-5 bullet points)
   - Target audience or eligibility
   - Official website or product page link (MUST be from the insurer's official domain)

2. CRITICAL REQUIREMENTS:
   - **ONLY include insurers that operate IN %[1]s**. For example, for Vietnam: Chubb Vietnam, PVI Insurance, Bao Viet, Manulife Vietnam, Prudential Vietnam, etc.
   - **DO NOT include US-based general travel insurers** like Travel Guard, World Nomads, Allianz Travel, SafeTrip, etc. These are NOT local to %[1]s.
   - Only include real, verifiable insurance products. Do NOT make up product names or companies.
   - The URL MUST be from the official insurer's website in %[1]s (e.g., chubb.com/vn-en, pvi.com.vn, baoviet.com.vn).
   - Do NOT use URLs from news sites, blogs, comparison sites, or aggregators.
   - If you cannot find the official product page, use the insurer's main website URL.

3. If you cannot find specific products from LOCAL insurers in %[1]s, respond with exactly: "%[2]s"

Format your response as a JSON array of products:
[
  {
    "product_name": "...",
    "insurer": "...",
    "description": "...",
    "target_audience": "...",
    "benefits": ["...", "...", "..."],
    "url": "..."
  }
]

Important: Only include real, verifiable insurance products. Double-check that URLs are from the official insurer's website.`,
		input.Country, Sentinel)

	return b.String()
}
