// internal/stages/research-products/handler_test.go
package researchproducts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mira-backend/internal/clients/openai"
	"mira-backend/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

type fakeCompleter struct {
	reply string
	err   error
	last  openai.Request
}

func (f *fakeCompleter) ChatCompletion(ctx context.Context, req openai.Request) (string, error) {
	f.last = req
	return f.reply, f.err
}

func newTestHandler(ai openai.Completer) *Handler {
	return NewHandler(DefaultConfig("gpt-4o"), ai, logger.Nop())
}

const productArrayJSON = `[
  {
    "product_name": "TravelCare Plus",
    "insurer": "PVI Insurance",
    "description": "Comprehensive travel coverage.",
    "target_audience": "Frequent travelers",
    "benefits": ["Medical expenses", "Trip cancellation", "Lost baggage"],
    "url": "https://pvi.com.vn/travelcare"
  },
  {
    "product_name": "Flexi Travel",
    "insurer": "Bao Viet",
    "description": "Flexible single-trip plan.",
    "target_audience": "Occasional travelers",
    "benefits": ["Emergency assistance", "Flight delay"],
    "url": "https://baoviet.com.vn/flexi"
  }
]`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain JSON array", productArrayJSON},
		{"fenced JSON array", "```json\n" + productArrayJSON + "\n```"},
		{"array embedded in prose", "Here are the products I found:\n\n" + productArrayJSON + "\n\nLet me know if you need more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeCompleter{reply: tt.reply}
			handler := newTestHandler(ai)

			output, err := handler.Execute(context.Background(), &Input{
				InsuranceType: "travel",
				Country:       "Vietnam",
			})

			require.NoError(t, err)
			require.Len(t, output.Products, 2)
			assert.Equal(t, "TravelCare Plus", output.Products[0].ProductName)
			assert.Equal(t, "PVI Insurance", output.Products[0].Insurer)
			assert.Len(t, output.Products[0].Benefits, 3)
			assert.Equal(t, "https://baoviet.com.vn/flexi", output.Products[1].URL)
		})
	}
}

func TestHandler_Execute_NoResults(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"exact sentinel", "NO_RESULTS_FOUND"},
		{"sentinel embedded in prose", "I searched extensively but NO_RESULTS_FOUND for this market."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeCompleter{reply: tt.reply}
			handler := newTestHandler(ai)

			output, err := handler.Execute(context.Background(), &Input{
				InsuranceType: "travel",
				Country:       "Atlantis",
			})

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrNoResults))
		})
	}
}

func TestHandler_Execute_ParseFailed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"free text", "I found some products but cannot format them right now."},
		{"broken JSON", `[{"product_name": "X", "insurer":`},
		{"empty array", `[]`},
		{"missing required fields", `[{"product_name": "X"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeCompleter{reply: tt.reply}
			handler := newTestHandler(ai)

			output, err := handler.Execute(context.Background(), &Input{
				InsuranceType: "travel",
				Country:       "Vietnam",
			})

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrParseFailed))
		})
	}
}

func TestHandler_Execute_ProviderErrorPropagates(t *testing.T) {
	ai := &fakeCompleter{err: openai.ErrRateLimited}
	handler := newTestHandler(ai)

	output, err := handler.Execute(context.Background(), &Input{
		InsuranceType: "travel",
		Country:       "Vietnam",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, openai.ErrRateLimited))
}

// ==========================
// Prompt Construction Tests
// ==========================

func TestHandler_PromptIncludesSearchContext(t *testing.T) {
	ai := &fakeCompleter{reply: productArrayJSON}
	handler := newTestHandler(ai)

	_, err := handler.Execute(context.Background(), &Input{
		InsuranceType: "travel",
		Country:       "Vietnam",
		SearchContext: "Title: PVI Travel\nURL: https://pvi.com.vn\nContent: plans",
	})
	require.NoError(t, err)

	require.Len(t, ai.last.Messages, 2)
	prompt := ai.last.Messages[1].Content
	assert.Contains(t, prompt, "HERE IS REAL-TIME SEARCH CONTEXT")
	assert.Contains(t, prompt, "Title: PVI Travel")
	assert.Contains(t, prompt, "ONLY include insurers that operate IN Vietnam")
	assert.Contains(t, prompt, `respond with exactly: "NO_RESULTS_FOUND"`)
	assert.Equal(t, 0.3, ai.last.Temperature)
	assert.Equal(t, 2000, ai.last.MaxTokens)
}

func TestHandler_PromptOmitsEmptySearchContext(t *testing.T) {
	ai := &fakeCompleter{reply: productArrayJSON}
	handler := newTestHandler(ai)

	_, err := handler.Execute(context.Background(), &Input{
		InsuranceType: "travel",
		Country:       "Vietnam",
	})
	require.NoError(t, err)

	assert.NotContains(t, ai.last.Messages[1].Content, "HERE IS REAL-TIME SEARCH CONTEXT")
}

// ==========================
// Parser Unit Tests
// ==========================

func TestParseProducts_URLOptional(t *testing.T) {
	products, err := parseProducts(`[
  {"product_name": "X", "insurer": "Y", "description": "d", "benefits": ["a"]}
]`)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Empty(t, products[0].URL)
}

func TestParseProducts_FencedAndUnfencedEquivalent(t *testing.T) {
	plain, err := parseProducts(productArrayJSON)
	require.NoError(t, err)

	fenced, err := parseProducts("```json\n" + productArrayJSON + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
}

func TestParseProducts_RejectsNonArray(t *testing.T) {
	_, err := parseProducts(`{"product_name": "X"}`)
	assert.Error(t, err)
}
