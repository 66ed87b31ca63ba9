// internal/stages/verify-links/handler.go
package verifylinks

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	commonhttp "mira-backend/internal/common/http"
	"mira-backend/internal/common/logger"
	"mira-backend/internal/common/metrics"
	"mira-backend/internal/models"
)

const (
	StageName = "verify-links"

	// fallbackNote is appended to a product's description when its exact
	// page could not be confirmed and the insurer homepage is linked
	// instead.
	fallbackNote = " (Note: Exact product page unavailable, linking to insurer homepage.)"

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
)

type Handler struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		// Per-check deadlines come from the context, not the client.
		client: commonhttp.NewClient(0),
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// Execute checks every candidate's URL concurrently and joins the
// results in input order. A failure of one check never affects the
// others and never fails the stage.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	results := make([]*models.VerifiedProduct, len(input.Products))

	sem := make(chan struct{}, h.config.MaxConcurrency)
	var wg sync.WaitGroup
	for i, product := range input.Products {
		wg.Add(1)
		go func(i int, product models.CandidateProduct) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					h.logger.Error("link check panicked, dropping product", map[string]interface{}{
						"productName": product.ProductName,
						"panic":       r,
					})
					metrics.LinkChecks.WithLabelValues("dropped").Inc()
				}
			}()
			sem <- struct{}{}
			defer func() { <-sem }()

			if verified, ok := h.verifyOne(ctx, product); ok {
				results[i] = &verified
			}
		}(i, product)
	}
	wg.Wait()

	verified := make([]models.VerifiedProduct, 0, len(results))
	for _, r := range results {
		if r != nil {
			verified = append(verified, *r)
		}
	}

	h.logger.Info("link verification completed", map[string]interface{}{
		"candidates": len(input.Products),
		"verified":   len(verified),
	})

	return &Output{Products: verified}, nil
}

func (h *Handler) verifyOne(ctx context.Context, product models.CandidateProduct) (models.VerifiedProduct, bool) {
	rawURL := strings.TrimSpace(product.URL)
	if rawURL == "" {
		metrics.LinkChecks.WithLabelValues("dropped").Inc()
		return models.VerifiedProduct{}, false
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if status, err := h.fetch(checkCtx, rawURL); err == nil {
		if status >= 200 && status < 300 {
			metrics.LinkChecks.WithLabelValues("ok").Inc()
			return product.Verified(rawURL, product.Description), true
		}
		// 401/403/405 usually mean "bot detected" but the page exists.
		if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusMethodNotAllowed {
			h.logger.Warn("link blocked or protected, assuming valid", map[string]interface{}{
				"url":    rawURL,
				"status": status,
			})
			metrics.LinkChecks.WithLabelValues("blocked_ok").Inc()
			return product.Verified(rawURL, product.Description), true
		}
		h.logger.Warn("link dead", map[string]interface{}{
			"url":    rawURL,
			"status": status,
		})
	}

	// Fall back to the domain root.
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		metrics.LinkChecks.WithLabelValues("dropped").Inc()
		return models.VerifiedProduct{}, false
	}

	rootURL := parsed.Scheme + "://" + parsed.Hostname()
	h.logger.Info("falling back to root URL", map[string]interface{}{
		"url":  rawURL,
		"root": rootURL,
	})
	metrics.LinkChecks.WithLabelValues("fallback").Inc()
	return product.Verified(rootURL, product.Description+fallbackNote), true
}

// fetch performs one GET and returns only the status code; the body is
// never read.
func (h *Handler) fetch(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
