// internal/stages/build-report/handler.go
package buildreport

import (
	"context"
	"fmt"
	"strings"

	"mira-backend/internal/common/logger"
	"mira-backend/internal/models"
)

const StageName = "build-report"

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.With(map[string]interface{}{"stage": StageName}),
	}
}

// templateData is the view model the report template renders.
type templateData struct {
	InsuranceType string
	Country       string
	Products      []productView
	ProductCount  int
	FormattedDate string
}

type productView struct {
	Number int
	models.VerifiedProduct
}

// Execute renders the verified products into a standalone HTML document.
// All user and model supplied strings pass through the template's
// contextual escaping.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	views := make([]productView, 0, len(input.Products))
	for i, p := range input.Products {
		views = append(views, productView{Number: i + 1, VerifiedProduct: p})
	}

	data := templateData{
		InsuranceType: input.InsuranceType,
		Country:       input.Country,
		Products:      views,
		ProductCount:  len(input.Products),
		FormattedDate: input.GeneratedAt.Format("January 2, 2006 at 03:04 PM"),
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, data); err != nil {
		h.logger.Error("failed to render report", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("render report: %w", err)
	}

	h.logger.Info("report rendered", map[string]interface{}{
		"productCount": len(input.Products),
		"sizeBytes":    b.Len(),
	})

	return &Output{HTML: b.String()}, nil
}
