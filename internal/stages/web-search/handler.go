// internal/stages/web-search/handler.go
package websearch

import (
	"context"
	"fmt"
	"strings"

	"mira-backend/internal/clients/tavily"
	"mira-backend/internal/common/logger"
)

const StageName = "web-search"

// Searcher is the slice of the search client this stage needs.
type Searcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]tavily.Result, error)
}

type Handler struct {
	search Searcher
	logger logger.Logger
}

func NewHandler(search Searcher, log logger.Logger) *Handler {
	return &Handler{
		search: search,
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute performs one best-effort search. It never fails the pipeline:
// a missing credential or any provider error yields an empty context.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	if !h.search.Configured() {
		h.logger.Warn("no search API key configured, skipping web search", nil)
		return &Output{}
	}

	results, err := h.search.Search(ctx, input.Query)
	if err != nil {
		h.logger.Warn("web search failed, continuing without context", map[string]interface{}{
			"error": err.Error(),
		})
		return &Output{}
	}

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nURL: %s\nContent: %s", r.Title, r.URL, r.Content))
	}

	h.logger.Info("web search completed", map[string]interface{}{
		"query":       input.Query,
		"resultCount": len(results),
	})

	return &Output{
		Context:     strings.Join(blocks, "\n\n"),
		ResultCount: len(results),
	}
}
