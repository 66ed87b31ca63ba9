// internal/stages/web-search/handler_test.go
package websearch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"mira-backend/internal/clients/tavily"
	"mira-backend/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

type fakeSearcher struct {
	configured bool
	results    []tavily.Result
	err        error
	lastQuery  string
	calls      int
}

func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]tavily.Result, error) {
	f.calls++
	f.lastQuery = query
	return f.results, f.err
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	search := &fakeSearcher{
		configured: true,
		results: []tavily.Result{
			{Title: "PVI Travel Insurance", URL: "https://pvi.com.vn/travel", Content: "Coverage up to..."},
			{Title: "Bao Viet Travel Care", URL: "https://baoviet.com.vn/travel", Content: "Comprehensive plan"},
		},
	}
	handler := NewHandler(search, logger.Nop())

	output := handler.Execute(context.Background(), &Input{Query: "travel insurance Vietnam"})

	assert.Equal(t, 2, output.ResultCount)
	assert.Equal(t, "travel insurance Vietnam", search.lastQuery)
	assert.Equal(t,
		"Title: PVI Travel Insurance\nURL: https://pvi.com.vn/travel\nContent: Coverage up to...\n\n"+
			"Title: Bao Viet Travel Care\nURL: https://baoviet.com.vn/travel\nContent: Comprehensive plan",
		output.Context)
}

func TestHandler_Execute_NotConfigured(t *testing.T) {
	search := &fakeSearcher{configured: false}
	handler := NewHandler(search, logger.Nop())

	output := handler.Execute(context.Background(), &Input{Query: "anything"})

	assert.Equal(t, 0, output.ResultCount)
	assert.Empty(t, output.Context)
	assert.Equal(t, 0, search.calls, "search should be skipped entirely without a key")
}

func TestHandler_Execute_SearchErrorDegrades(t *testing.T) {
	search := &fakeSearcher{configured: true, err: errors.New("search API returned 500")}
	handler := NewHandler(search, logger.Nop())

	output := handler.Execute(context.Background(), &Input{Query: "anything"})

	assert.Equal(t, 0, output.ResultCount)
	assert.Empty(t, output.Context)
}

func TestHandler_Execute_EmptyResults(t *testing.T) {
	search := &fakeSearcher{configured: true, results: []tavily.Result{}}
	handler := NewHandler(search, logger.Nop())

	output := handler.Execute(context.Background(), &Input{Query: "anything"})

	assert.Equal(t, 0, output.ResultCount)
	assert.Empty(t, output.Context)
}
