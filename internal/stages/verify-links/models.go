// internal/stages/verify-links/models.go
package verifylinks

import "mira-backend/internal/models"

type Input struct {
	Products []models.CandidateProduct `json:"products"`
}

// Output holds the surviving products, in input order.
type Output struct {
	Products []models.VerifiedProduct `json:"products"`
}
