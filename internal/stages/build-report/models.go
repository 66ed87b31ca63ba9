// internal/stages/build-report/models.go
package buildreport

import (
	"time"

	"mira-backend/internal/models"
)

type Input struct {
	InsuranceType string                   `json:"insuranceType"`
	Country       string                   `json:"country"`
	Products      []models.VerifiedProduct `json:"products"`
	GeneratedAt   time.Time                `json:"generatedAt"`
}

// Output carries the finished self-contained HTML document.
type Output struct {
	HTML string `json:"html"`
}
