// internal/stages/validate-inputs/handler.go
package validateinputs

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"mira-backend/internal/clients/openai"
	"mira-backend/internal/common/logger"
)

const StageName = "validate-inputs"

var jsonFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

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

// Execute asks the classification model whether the inputs name a real
// insurance category and a real country, and to normalize both. A
// transport or provider error propagates to the caller; an unparsable
// model reply degrades to an invalid outcome with a generic message.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	content, err := h.ai.ChatCompletion(ctx, openai.Request{
		Model: h.config.Model,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: "You are a validation assistant. Always respond with valid JSON only, no additional text.",
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

	var output Output
	if err := json.Unmarshal([]byte(stripJSONFence(content)), &output); err != nil {
		h.logger.Warn("failed to parse validation response", map[string]interface{}{
			"error":    err.Error(),
			"response": content,
		})
		return &Output{
			IsValid: false,
			Error:   "Failed to validate inputs. Please try again.",
		}, nil
	}

	h.logger.Info("inputs validated", map[string]interface{}{
		"isValid":                 output.IsValid,
		"normalizedInsuranceType": output.NormalizedInsuranceType,
		"normalizedCountry":       output.NormalizedCountry,
	})

	return &output, nil
}

func (h *Handler) buildPrompt(input *Input) string {
	return fmt.Sprintf(`Validate these inputs for insurance product research:

Insurance Type: "%s"
Country: "%s"

Tasks:
1. Determine if the insurance type is valid and recognizable (e.g., term life, whole life, health, travel, motor, personal accident, critical illness, etc.)
2. Determine if the country is a valid country name
3. Normalize both inputs to standard forms

Valid insurance types include (but not limited to):
- Term Life Insurance
- Whole Life Insurance
- Health/Medical Insurance
- Travel Insurance
- Motor/Car Insurance
- Personal Accident Insurance
- Critical Illness Insurance
- Home Insurance
- Disability Insurance

Respond ONLY with a JSON object in this exact format:
{
  "isValid": true/false,
  "normalizedInsuranceType": "standardized insurance type name" or null,
  "normalizedCountry": "standardized country name" or null,
  "error": "explanation if invalid" or null
}

Examples:
- "term life" + "Singapore" → {"isValid": true, "normalizedInsuranceType": "Term Life Insurance", "normalizedCountry": "Singapore", "error": null}
- "blahblah" + "xyz" → {"isValid": false, "normalizedInsuranceType": null, "normalizedCountry": null, "error": "Insurance type and country were not clearly specified"}
- "car" + "Singapore" → {"isValid": true, "normalizedInsuranceType": "Motor Insurance", "normalizedCountry": "Singapore", "error": null}`,
		input.InsuranceType, input.Country)
}

// stripJSONFence removes an optional markdown code fence wrapping the
// model's JSON reply.
func stripJSONFence(content string) string {
	if m := jsonFenceRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(content)
}
