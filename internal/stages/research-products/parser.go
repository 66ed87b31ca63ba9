// internal/stages/research-products/parser.go
package researchproducts

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"mira-backend/internal/models"
)

var (
	jsonFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	jsonArrayRe = regexp.MustCompile(`\[[\s\S]*\]`)
)

// productArraySchema validates the shape of the model's product list
// before it enters link verification. The url field stays optional:
// products without one are dropped later by the verifier, not rejected
// here.
const productArraySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["product_name", "insurer", "description", "benefits"],
    "properties": {
      "product_name": {"type": "string", "minLength": 1},
      "insurer": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "target_audience": {"type": "string"},
      "benefits": {"type": "array", "items": {"type": "string"}},
      "coverage": {"type": "string"},
      "url": {"type": "string"}
    }
  }
}`

var productSchema = gojsonschema.NewStringLoader(productArraySchema)

// parseProducts extracts a product array from the model's raw reply.
// Layered fallbacks: a fenced code block first, then the first
// bracket-delimited substring, then the raw text.
func parseProducts(raw string) ([]models.CandidateProduct, error) {
	candidates := []string{}
	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if m := jsonArrayRe.FindString(raw); m != "" {
		candidates = append(candidates, m)
	}
	candidates = append(candidates, strings.TrimSpace(raw))

	var lastErr error
	for _, c := range candidates {
		products, err := decodeProducts(c)
		if err == nil {
			return products, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func decodeProducts(jsonStr string) ([]models.CandidateProduct, error) {
	result, err := gojsonschema.Validate(productSchema, gojsonschema.NewStringLoader(jsonStr))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			descs = append(descs, e.String())
		}
		return nil, fmt.Errorf("schema validation: %s", strings.Join(descs, "; "))
	}

	var products []models.CandidateProduct
	if err := json.Unmarshal([]byte(jsonStr), &products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("empty product array")
	}
	return products, nil
}
