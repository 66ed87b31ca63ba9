// internal/pipeline/generator.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mira-backend/internal/clients/openai"
	stderrors "mira-backend/internal/common/errors"
	"mira-backend/internal/common/logger"
	"mira-backend/internal/common/metrics"
	"mira-backend/internal/common/observability"
	"mira-backend/internal/models"
	buildreport "mira-backend/internal/stages/build-report"
	researchproducts "mira-backend/internal/stages/research-products"
	validateinputs "mira-backend/internal/stages/validate-inputs"
	verifylinks "mira-backend/internal/stages/verify-links"
	websearch "mira-backend/internal/stages/web-search"
)

// defaultRejectionMessage is shown when semantic validation rejects the
// request without its own explanation.
const defaultRejectionMessage = "Insurance type or country was not clearly specified, or no matching products were found."

// ==========================
// 1. Stage Contracts
// ==========================

type InputValidator interface {
	Execute(ctx context.Context, input *validateinputs.Input) (*validateinputs.Output, error)
}

type WebSearcher interface {
	Execute(ctx context.Context, input *websearch.Input) *websearch.Output
}

type ProductResearcher interface {
	Execute(ctx context.Context, input *researchproducts.Input) (*researchproducts.Output, error)
}

type LinkVerifier interface {
	Execute(ctx context.Context, input *verifylinks.Input) (*verifylinks.Output, error)
}

type ReportBuilder interface {
	Execute(ctx context.Context, input *buildreport.Input) (*buildreport.Output, error)
}

// ==========================
// 2. Request / Result
// ==========================

type Request struct {
	InsuranceType string `json:"insurance_type"`
	Country       string `json:"country"`
}

// Result mirrors the response contract of the report endpoint. A failed
// pipeline still yields a Result with OK false and a user-safe Error.
type Result struct {
	OK       bool                     `json:"ok"`
	ReportID string                   `json:"report_id,omitempty"`
	Products []models.VerifiedProduct `json:"products,omitempty"`
	HTML     string                   `json:"html,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// ==========================
// 3. Generator
// ==========================

type Generator struct {
	validate InputValidator
	search   WebSearcher
	research ProductResearcher
	verify   LinkVerifier
	build    ReportBuilder
	obs      *observability.Observability
	logger   logger.Logger
}

func NewGenerator(
	validate InputValidator,
	search WebSearcher,
	research ProductResearcher,
	verify LinkVerifier,
	build ReportBuilder,
	obs *observability.Observability,
	log logger.Logger,
) *Generator {
	return &Generator{
		validate: validate,
		search:   search,
		research: research,
		verify:   verify,
		build:    build,
		obs:      obs,
		logger:   log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// Generate runs the full pipeline for one request. Expected failures
// (rejected inputs, empty research, unverifiable links, provider auth
// and quota errors) come back as a Result with OK false; the returned
// error is non-nil only for unexpected failures.
func (g *Generator) Generate(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	result, err := g.run(ctx, req)
	elapsed := time.Since(started)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case !result.OK:
		outcome = "rejected"
	}
	metrics.ReportRequests.WithLabelValues(outcome).Inc()
	g.obs.RecordReportProcessed(ctx, outcome)
	g.obs.RecordReportDuration(ctx, elapsed, outcome)

	return result, err
}

func (g *Generator) run(ctx context.Context, req *Request) (*Result, error) {
	log := g.logger.With(map[string]interface{}{
		"insuranceType": req.InsuranceType,
		"country":       req.Country,
	})
	log.Info("starting report generation", nil)

	// Stage 1: semantic validation.
	validation, err := g.timedValidate(ctx, req)
	if err != nil {
		return g.mapProviderError(validateinputs.StageName, err, req)
	}
	if !validation.IsValid {
		message := validation.Error
		if message == "" {
			message = defaultRejectionMessage
		}
		metrics.StageFailures.WithLabelValues(validateinputs.StageName, string(stderrors.ErrCodeValidationRejected)).Inc()
		log.Info("inputs rejected by validation", map[string]interface{}{"reason": message})
		return &Result{OK: false, Error: message}, nil
	}

	// Stage 2: web search. Best effort, an empty context is acceptable.
	searchQuery := fmt.Sprintf("%s insurance %s local insurers buy online official site 2024",
		req.InsuranceType, req.Country)
	searchOut := g.timedSearch(ctx, searchQuery)

	// Stage 3: product research.
	researchOut, err := g.timedResearch(ctx, req, searchOut.Context)
	if err != nil {
		switch {
		case errors.Is(err, researchproducts.ErrNoResults):
			stdErr := stderrors.NewNoResultsFoundError(req.InsuranceType, req.Country)
			metrics.StageFailures.WithLabelValues(researchproducts.StageName, string(stdErr.Code)).Inc()
			return &Result{OK: false, Error: stdErr.Message}, nil
		case errors.Is(err, researchproducts.ErrParseFailed):
			stdErr := stderrors.NewResearchParseFailedError(err.Error())
			metrics.StageFailures.WithLabelValues(researchproducts.StageName, string(stdErr.Code)).Inc()
			return &Result{OK: false, Error: stdErr.Message}, nil
		default:
			return g.mapProviderError(researchproducts.StageName, err, req)
		}
	}

	// Stage 4: link verification.
	verifyOut, err := g.timedVerify(ctx, researchOut.Products)
	if err != nil {
		return nil, fmt.Errorf("verify links: %w", err)
	}
	if len(verifyOut.Products) == 0 {
		stdErr := stderrors.NewInsufficientVerifiedLinksError()
		metrics.StageFailures.WithLabelValues(verifylinks.StageName, string(stdErr.Code)).Inc()
		log.Info("no product links survived verification", map[string]interface{}{
			"candidates": len(researchOut.Products),
		})
		return &Result{OK: false, Error: stdErr.Message}, nil
	}

	// Stage 5: report rendering. Normalized names fall back to the raw
	// inputs when validation did not supply them.
	insuranceType := validation.NormalizedInsuranceType
	if insuranceType == "" {
		insuranceType = req.InsuranceType
	}
	country := validation.NormalizedCountry
	if country == "" {
		country = req.Country
	}

	reportOut, err := g.timedBuild(ctx, insuranceType, country, verifyOut.Products)
	if err != nil {
		metrics.StageFailures.WithLabelValues(buildreport.StageName, string(stderrors.ErrCodeReportGenerationFailed)).Inc()
		return nil, fmt.Errorf("build report: %w", err)
	}

	reportID := uuid.NewString()
	log.Info("report generated", map[string]interface{}{
		"reportId":     reportID,
		"productCount": len(verifyOut.Products),
	})

	return &Result{
		OK:       true,
		ReportID: reportID,
		Products: verifyOut.Products,
		HTML:     reportOut.HTML,
	}, nil
}

// mapProviderError turns upstream model-provider failures into the
// fixed user-facing messages; anything else propagates unexpected.
func (g *Generator) mapProviderError(stage string, err error, req *Request) (*Result, error) {
	switch {
	case errors.Is(err, openai.ErrAuthentication):
		stdErr := stderrors.NewAuthenticationError(err.Error())
		metrics.StageFailures.WithLabelValues(stage, string(stdErr.Code)).Inc()
		g.logger.Error("provider authentication failed", map[string]interface{}{"stage": stage})
		return &Result{OK: false, Error: stdErr.Message}, nil
	case errors.Is(err, openai.ErrRateLimited):
		stdErr := stderrors.NewQuotaExceededError(err.Error())
		metrics.StageFailures.WithLabelValues(stage, string(stdErr.Code)).Inc()
		g.logger.Warn("provider rate limited", map[string]interface{}{"stage": stage})
		return &Result{OK: false, Error: stdErr.Message}, nil
	default:
		metrics.StageFailures.WithLabelValues(stage, string(stderrors.ErrCodeReportGenerationFailed)).Inc()
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
}

// ==========================
// 4. Timed Stage Wrappers
// ==========================

func (g *Generator) timedValidate(ctx context.Context, req *Request) (*validateinputs.Output, error) {
	defer observeStage(validateinputs.StageName)()
	return g.validate.Execute(ctx, &validateinputs.Input{
		InsuranceType: req.InsuranceType,
		Country:       req.Country,
	})
}

func (g *Generator) timedSearch(ctx context.Context, query string) *websearch.Output {
	defer observeStage(websearch.StageName)()
	return g.search.Execute(ctx, &websearch.Input{Query: query})
}

func (g *Generator) timedResearch(ctx context.Context, req *Request, searchContext string) (*researchproducts.Output, error) {
	defer observeStage(researchproducts.StageName)()
	return g.research.Execute(ctx, &researchproducts.Input{
		InsuranceType: req.InsuranceType,
		Country:       req.Country,
		SearchContext: searchContext,
	})
}

func (g *Generator) timedVerify(ctx context.Context, products []models.CandidateProduct) (*verifylinks.Output, error) {
	defer observeStage(verifylinks.StageName)()
	return g.verify.Execute(ctx, &verifylinks.Input{Products: products})
}

func (g *Generator) timedBuild(ctx context.Context, insuranceType, country string, products []models.VerifiedProduct) (*buildreport.Output, error) {
	defer observeStage(buildreport.StageName)()
	return g.build.Execute(ctx, &buildreport.Input{
		InsuranceType: insuranceType,
		Country:       country,
		Products:      products,
		GeneratedAt:   time.Now().UTC(),
	})
}

func observeStage(stage string) func() {
	started := time.Now()
	return func() {
		metrics.StageDuration.WithLabelValues(strings.ToLower(stage)).Observe(time.Since(started).Seconds())
	}
}
